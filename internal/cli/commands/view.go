package commands

import (
	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/internal/tui"
	"github.com/ccollicutt/p2000/pkg/stats"
)

// NewViewCommand creates the view command, the interactive browser.
func NewViewCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view [log-file...]",
		Short: "Browse messages interactively",
		Long: `Parse P2000 log files and browse the messages in a terminal UI.

Keys:
  up/k, down/j     move
  pgup, pgdown     page
  g/home, G/end    first, last
  / or s           search (as you type); enter keeps the query, esc clears
  p                cycle the priority filter
  q, ctrl+c        quit

When standard output is not a terminal the messages are printed as with
"p2000 list".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, g)
		},
	}
}

func runView(cmd *cobra.Command, args []string, g *GlobalOptions) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return runList(cmd, args, g, &ListOptions{Output: "text", Color: "never"})
	}

	s, err := loadSession(cmd, args, g)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Abbreviations: s.abbrev,
		Places:        s.places,
		Summary:       stats.Compute(s.store.All(), s.result),
	}
	if s.sourceErr != nil {
		opts.Warning = s.sourceErr.Error()
	}
	return tui.Run(s.ctx, s.store, opts)
}
