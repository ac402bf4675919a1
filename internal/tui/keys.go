package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the browse mode. It implements help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Search   key.Binding
	Apply    key.Binding
	Clear    key.Binding
	Priority key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newBinding(keys []string, display, help string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       newBinding([]string{"up", "k"}, "↑/k", "up"),
		Down:     newBinding([]string{"down", "j"}, "↓/j", "down"),
		PageUp:   newBinding([]string{"pgup"}, "pgup", "page up"),
		PageDown: newBinding([]string{"pgdown"}, "pgdown", "page down"),
		Home:     newBinding([]string{"home", "g"}, "g/home", "first"),
		End:      newBinding([]string{"end", "G"}, "G/end", "last"),
		Search:   newBinding([]string{"/", "s"}, "/", "search"),
		Apply:    newBinding([]string{"enter"}, "enter", "keep query"),
		Clear:    newBinding([]string{"esc"}, "esc", "clear search"),
		Priority: newBinding([]string{"p"}, "p", "priority filter"),
		Help:     newBinding([]string{"?"}, "?", "more keys"),
		Quit:     newBinding([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Priority, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped in columns.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Home, k.End},
		{k.Search, k.Apply, k.Clear, k.Priority},
		{k.Help, k.Quit},
	}
}
