package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/pkg/message"
	"github.com/ccollicutt/p2000/pkg/output"
	"github.com/ccollicutt/p2000/pkg/store"
)

// ListOptions holds command-line options for the list command.
type ListOptions struct {
	Output   string
	Search   string
	Priority string
	Color    string
	Verbose  bool
	Quiet    bool
}

// NewListCommand creates the list command.
func NewListCommand(g *GlobalOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list [log-file...]",
		Short: "Print parsed messages",
		Long: `Parse P2000 log files and print the messages, oldest line first.

Files may be glob patterns ("logs/**/*.log"). Without files the configured
sources are read, then standard input.

--search matches case-insensitively against location, incident code, detail
and the raw payload. --priority keeps one priority class (P1, P2, P3, A0,
A1, A2, B, Unknown).

Exit codes:
  0 - All input read
  1 - An input failed part way; the messages read so far are shown
  2 - Configuration or startup error`,
		Example: `  p2000 list p2000.log
  p2000 list --search amsterdam --priority P1 'logs/*.log'
  rtl_fm ... | multimon-ng ... | p2000 list -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Only messages containing this text")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Only messages of this priority")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "Color priorities (auto|always|never)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show capcodes, protocol fields, source, place and abbreviations")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no messages")

	return cmd
}

func runList(cmd *cobra.Command, args []string, g *GlobalOptions, opts *ListOptions) error {
	filter, err := opts.filter()
	if err != nil {
		return err
	}

	color, err := useColor(opts.Color, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	s, err := loadSession(cmd, args, g)
	if err != nil {
		return err
	}

	formatter, err := output.New(opts.Output, output.FormatOptions{
		Verbose:       opts.Verbose,
		Quiet:         opts.Quiet,
		Color:         color,
		Abbreviations: s.abbrev,
		Places:        s.places,
	})
	if err != nil {
		return err
	}

	report := output.NewReport(s.store, s.result, filter, s.configFile, s.sourceErr)
	if err := formatter.Format(s.ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

func (o *ListOptions) filter() (store.Filter, error) {
	f := store.Filter{Text: o.Search}
	if o.Priority == "" {
		return f, nil
	}
	p := message.ParsePriority(o.Priority)
	if p == message.PriorityUnknown && !strings.EqualFold(strings.TrimSpace(o.Priority), string(message.PriorityUnknown)) {
		return f, fmt.Errorf("unknown priority %q (use P1, P2, P3, A0, A1, A2, B or Unknown)", o.Priority)
	}
	f.Priority = p
	return f, nil
}
