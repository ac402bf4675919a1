// Package tui implements the interactive message browser.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/p2000/pkg/abbrev"
	"github.com/ccollicutt/p2000/pkg/message"
	"github.com/ccollicutt/p2000/pkg/output"
	"github.com/ccollicutt/p2000/pkg/places"
	"github.com/ccollicutt/p2000/pkg/stats"
	"github.com/ccollicutt/p2000/pkg/store"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	minListHeight = 3
)

// Options configures the browser.
type Options struct {
	Abbreviations *abbrev.Table
	Places        *places.Table
	Summary       *stats.Summary
	// Warning is shown in the header, e.g. when ingestion stopped early.
	Warning string
}

// Model is the bubbletea model of the browser. It only reads from the store.
type Model struct {
	store   *store.Store
	opts    Options
	keys    keyMap
	help    help.Model
	input   textinput.Model
	results []message.Message

	priority  message.Priority // empty means all priorities
	searching bool
	cursor    int
	offset    int
	width     int
	height    int
}

// New creates a browser over st showing every message.
func New(st *store.Store, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "location, incident code or text"
	ti.Prompt = "/ "
	ti.CharLimit = 256

	m := Model{
		store:  st,
		opts:   opts,
		keys:   defaultKeyMap(),
		help:   help.New(),
		input:  ti,
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.refresh()
	return m
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(ctx context.Context, st *store.Store, opts Options) error {
	p := tea.NewProgram(New(st, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		m.scrollToCursor()
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Clear):
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.move(m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.move(-len(m.results))
	case key.Matches(msg, m.keys.End):
		m.move(len(m.results))
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Clear):
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.refresh()
		}
	case key.Matches(msg, m.keys.Priority):
		m.priority = nextPriority(m.priority)
		m.refresh()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// nextPriority cycles all -> each priority, most urgent first -> all.
func nextPriority(p message.Priority) message.Priority {
	order := message.Priorities()
	if p == "" {
		return order[0]
	}
	for i, q := range order {
		if q == p && i+1 < len(order) {
			return order[i+1]
		}
	}
	return ""
}

func (m *Model) refresh() {
	m.results = m.store.Search(store.Filter{Text: m.input.Value(), Priority: m.priority})
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

func (m *Model) move(delta int) {
	if len(m.results) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.results)-1)
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the number of message rows visible at once.
func (m Model) listHeight() int {
	// header, search line, help line and the detail pane take the rest
	chrome := 3
	if m.opts.Warning != "" {
		chrome++
	}
	return max((m.height-chrome)/2, minListHeight)
}

// Selected returns the highlighted message, if any.
func (m Model) Selected() (message.Message, bool) {
	if len(m.results) == 0 {
		return message.Message{}, false
	}
	return m.results[m.cursor], true
}

// Results returns the messages matching the current query.
func (m Model) Results() []message.Message {
	return m.results
}

// Query returns the current search text.
func (m Model) Query() string {
	return m.input.Value()
}

// PriorityFilter returns the active priority filter; empty means all.
func (m Model) PriorityFilter() message.Priority {
	return m.priority
}

// Searching reports whether the search field has focus.
func (m Model) Searching() bool {
	return m.searching
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(paneStyle.Width(m.width).Render(m.detailView()))
	b.WriteString("\n")
	b.WriteString(m.searchView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) headerView() string {
	filter := "all"
	if m.priority != "" {
		filter = string(m.priority)
	}
	text := fmt.Sprintf("P2000  %d of %d messages  priority: %s", len(m.results), m.store.Len(), filter)
	if m.opts.Summary != nil && m.opts.Summary.LinesSkipped > 0 {
		text += fmt.Sprintf("  skipped lines: %d", m.opts.Summary.LinesSkipped)
	}
	header := headerStyle.Width(m.width).MaxWidth(m.width).Render(text)
	if m.opts.Warning != "" {
		header += "\n" + warnStyle.MaxWidth(m.width).Render("WARNING: "+m.opts.Warning)
	}
	return header
}

func (m Model) listView() string {
	h := m.listHeight()
	rows := make([]string, 0, h)
	if len(m.results) == 0 {
		rows = append(rows, dimStyle.Render("no matching messages"))
	}
	end := min(m.offset+h, len(m.results))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.rowView(m.results[i], i == m.cursor))
	}
	for len(rows) < h {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) rowView(msg message.Message, selected bool) string {
	ts := "-"
	if t, ok := msg.Timestamp(); ok {
		ts = t.Format(output.TimeLayout)
	}
	code, _ := msg.IncidentCode()
	loc, _ := msg.Location()
	rest := fmt.Sprintf("  %-8s  %-20s  %s", code, loc, msg.Detail())

	line := lipgloss.NewStyle().MaxWidth(m.width)
	if selected {
		plain := fmt.Sprintf("%-19s  %s%s", ts, output.PriorityTag(msg.Priority(), false), rest)
		return line.Render(selectedStyle.Render(plain))
	}
	return line.Render(fmt.Sprintf("%-19s  %s%s", ts, output.PriorityTag(msg.Priority(), true), rest))
}

func (m Model) detailView() string {
	msg, ok := m.Selected()
	if !ok {
		return dimStyle.Render("nothing selected")
	}

	field := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return labelStyle.Render(fmt.Sprintf("%-10s", label)) + " " + value
	}
	opt := func(v string, _ bool) string { return v }

	ts := ""
	if t, ok := msg.Timestamp(); ok {
		ts = t.Format(output.TimeLayout)
	}
	prio := output.PriorityStyle(msg.Priority()).Render(string(msg.Priority())) +
		" (" + message.Rank(msg.Priority()).String() + ")"

	lines := []string{
		field("Time", ts),
		field("Priority", prio),
		field("Incident", opt(msg.IncidentCode())),
		field("Location", opt(msg.Location())),
		field("Detail", msg.Detail()),
		field("Capcodes", strings.Join(msg.Capcodes(), ", ")),
		field("Protocol", fmt.Sprintf("%s  address %s  frequency %s  type %s",
			msg.Protocol(), orDash(msg.Address()), orDash(msg.Frequency()), orDash(opt(msg.MessageType())))),
		field("Source", fmt.Sprintf("%s:%d", msg.Source(), msg.LineNum())),
		field("Payload", msg.RawPayload()),
	}
	loc, _ := msg.Location()
	if p, ok := m.opts.Places.Resolve(loc, msg.RawPayload()); ok {
		lines = append(lines, field("Place", p.String()))
	}
	for _, e := range m.opts.Abbreviations.Annotate(msg.RawPayload()) {
		lines = append(lines, field("Abbrev", e.Abbreviation+" = "+e.Meaning))
	}
	return strings.Join(lines, "\n")
}

func (m Model) searchView() string {
	if m.searching || m.input.Value() != "" {
		return m.input.View()
	}
	return dimStyle.Render("press / to search")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
