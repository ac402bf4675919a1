package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/pkg/output"
	"github.com/ccollicutt/p2000/pkg/stats"
)

// StatsOptions holds command-line options for the stats command.
type StatsOptions struct {
	Output  string
	TopN    int
	Color   string
	Verbose bool
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(g *GlobalOptions) *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [log-file...]",
		Short: "Summarize parsed messages",
		Long: `Parse P2000 log files and print counts per priority, the most frequent
incident codes and capcodes, the time range covered and why lines were
skipped.`,
		Example: `  p2000 stats p2000.log
  p2000 stats --top 20 -o json 'logs/**/*.log'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.TopN, "top", "n", stats.DefaultTopN, "Number of incident codes and capcodes to list")
	cmd.Flags().StringVar(&opts.Color, "color", "auto", "Color priorities (auto|always|never)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include priorities without messages")

	return cmd
}

func runStats(cmd *cobra.Command, args []string, g *GlobalOptions, opts *StatsOptions) error {
	if opts.TopN < 1 {
		return fmt.Errorf("invalid --top %d: must be at least 1", opts.TopN)
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
		Verbose: opts.Verbose,
		Color:   color,
	})
	if err != nil {
		return err
	}

	summary := stats.Compute(s.store.All(), s.result, stats.WithTopN(opts.TopN))
	if err := formatter.FormatStats(s.ctx, summary, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}
