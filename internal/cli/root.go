// Package cli provides the command-line interface for p2000.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	commands.ExitCode = commands.ExitOK

	if err := NewRootCommand().Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "p2000 [log-file...]",
		Short: "Browse P2000 emergency paging logs",
		Long: `p2000 parses P2000 paging logs (FLEX decoder output) into structured
messages: priority, incident code, location, detail and capcodes. It lets
you browse, search and summarize them.

Without a subcommand the interactive browser is started (see "p2000 view").
Files may be glob patterns; without files the configured sources are read,
then standard input.

Exit codes:
  0 - All input read
  1 - An input failed part way; the messages read so far are used
  2 - Configuration or startup error`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.NewViewCommand(g).RunE(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	flags.StringVar(&g.LogLevel, "log-level", "", "Log level (debug|info|warn|error), overrides the config")
	flags.BoolVar(&g.LogJSON, "log-json", false, "Log as JSON on stderr")

	// Add subcommands
	rootCmd.AddCommand(commands.NewViewCommand(g))
	rootCmd.AddCommand(commands.NewListCommand(g))
	rootCmd.AddCommand(commands.NewStatsCommand(g))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
