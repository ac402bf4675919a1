package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/pkg/abbrev"
	"github.com/ccollicutt/p2000/pkg/config"
	"github.com/ccollicutt/p2000/pkg/parser"
	"github.com/ccollicutt/p2000/pkg/places"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a p2000 configuration file without reading any logs.

Checks:
  - YAML syntax and unknown keys
  - Delimiter and comment prefix
  - Timestamp layouts and time zone
  - Log level
  - Abbreviations file (must load)
  - Place table (must load)
  - Source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var table *abbrev.Table
	if cfg.Abbreviations != "" {
		table, err = abbrev.Load(cfg.Abbreviations)
		if err != nil {
			return fmt.Errorf("validation failed: abbreviations: %w", err)
		}
	}

	var placeTable *places.Table
	if cfg.Places != "" {
		placeTable, err = places.Load(cfg.Places)
		if err != nil {
			return fmt.Errorf("validation failed: places: %w", err)
		}
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Delimiter:      %s\n", strconv.Quote(cfg.Format.Delimiter))
	fmt.Fprintf(out, "  Comment prefix: %s\n", strconv.Quote(cfg.Format.CommentPrefix))
	fmt.Fprintf(out, "  Time zone:      %s\n", cfg.Timestamp.Location())
	fmt.Fprintf(out, "  Log level:      %s\n", cfg.Log.Level)
	if table != nil {
		fmt.Fprintf(out, "  Abbreviations:  %d from %s\n", table.Len(), cfg.Abbreviations)
	}
	if placeTable != nil {
		fmt.Fprintf(out, "  Places:         %d from %s\n", placeTable.Len(), cfg.Places)
	}

	fmt.Fprintf(out, "\nTimestamp layouts:\n")
	for i, layout := range cfg.Timestamp.Layouts {
		fmt.Fprintf(out, "  %d. %s\n", i+1, layout)
	}

	if len(cfg.Extractor.DetailKeywords) > 0 {
		fmt.Fprintf(out, "\nDetail keywords: %d\n", len(cfg.Extractor.DetailKeywords))
	}

	if len(cfg.Sources) == 0 {
		fmt.Fprintf(out, "\nNo sources configured; files are given on the command line or read from stdin.\n")
		return nil
	}

	// Check if sources exist (warnings only)
	files, err := parser.ExpandGlobs(cfg.Sources)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding source patterns: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "\nSources matched: %d\n", len(files))
	for _, f := range files {
		if fileExists(f) {
			fmt.Fprintf(out, "  - %s\n", f)
		} else {
			fmt.Fprintf(out, "  - %s (Warning: not found)\n", f)
		}
	}

	return nil
}
