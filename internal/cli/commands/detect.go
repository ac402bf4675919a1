package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/p2000/pkg/config"
	"github.com/ccollicutt/p2000/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect the record format of a log file",
		Long: `Sample a P2000 log file and detect how its records are written.

Reports, each with a confidence score:
  - the field delimiter (|, ;, tab or ,)
  - the field order (protocol first or timestamp first)
  - the timestamp layout

and prints a ready-to-use YAML configuration snippet.

Optionally generates a starter config file with --write-config.

Example:
  p2000 detect p2000.log
  p2000 detect --sample 500 export.csv
  p2000 detect -w p2000.yaml export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all candidates, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, logFile, opts.WriteConfig); err != nil {
			return err
		}
		if opts.Output == "text" {
			fmt.Fprintf(out, "Wrote starter config to: %s\n\n", opts.WriteConfig)
		}
	}

	if opts.Output == "json" {
		return outputDetectJSON(out, result, logFile, opts)
	}
	return outputDetectText(out, result, logFile, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Record Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No P2000 records detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: records need at least 7 fields and a capcode list,")
		fmt.Fprintln(w, "e.g. FLEX|2026-01-01 20:14:32|1600/2/K/A|03.091|002029575|ALN|P 1 ...")
		return nil
	}

	delim := result.BestDelimiter()
	fmt.Fprintf(w, "Delimiter: %s\n", delimiterName(delim.Delimiter))
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines are records)\n",
		delim.Confidence*100, delim.MatchCount, result.SampledLines)
	fmt.Fprintf(w, "Field order: %s (%.1f%% of records)\n",
		fieldOrderName(result.TimestampFirst), result.FieldOrderConfidence*100)
	fmt.Fprintln(w)

	best := result.BestMatch()
	if best == nil {
		fmt.Fprintln(w, "No timestamp format detected; messages will have no time.")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "Timestamp format: %s\n", best.Format.Name)
		fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d records matched)\n",
			best.Confidence*100, best.MatchCount, delim.MatchCount)
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
		fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(w)

		if result.AmbiguityNote != "" {
			fmt.Fprintf(w, "WARNING: %s\n", result.AmbiguityNote)
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "format:")
	fmt.Fprintf(w, "  delimiter: %s\n", strconv.Quote(delim.Delimiter))
	if best != nil {
		fmt.Fprintln(w, "timestamp:")
		fmt.Fprintln(w, "  layouts:")
		fmt.Fprintf(w, "    - %q\n", best.Format.Layout)
	}
	fmt.Fprintln(w)

	if opts.ShowAll {
		fmt.Fprintln(w, "--- All candidates ---")
		fmt.Fprintln(w, "Delimiters:")
		for _, d := range result.Delimiters {
			fmt.Fprintf(w, "  %-6s %.1f%% (%d lines)\n", delimiterName(d.Delimiter), d.Confidence*100, d.MatchCount)
		}
		if len(result.Matches) > 1 {
			fmt.Fprintln(w, "Timestamp formats:")
			for i, m := range result.Matches[1:] {
				fmt.Fprintf(w, "  %d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
				fmt.Fprintf(w, "     layout: %q\n", m.Format.Layout)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

func delimiterName(d string) string {
	if d == "\t" {
		return "tab"
	}
	return d
}

func fieldOrderName(timestampFirst bool) string {
	if timestampFirst {
		return "timestamp first"
	}
	return "protocol first"
}

// JSONDelimiter represents a delimiter candidate in JSON output.
type JSONDelimiter struct {
	Delimiter  string  `json:"delimiter"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
}

// JSONMatch represents a format match in JSON output.
type JSONMatch struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Layout     string  `json:"layout"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
	Ambiguous  bool    `json:"ambiguous,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File                 string          `json:"file"`
	SampledLines         int             `json:"sampled_lines"`
	Delimiters           []JSONDelimiter `json:"delimiters"`
	TimestampFirst       bool            `json:"timestamp_first"`
	FieldOrderConfidence float64         `json:"field_order_confidence"`
	Matches              []JSONMatch     `json:"matches"`
	ParsedLines          int             `json:"parsed_lines"`
	AmbiguityNote        string          `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:                 logFile,
		SampledLines:         result.SampledLines,
		TimestampFirst:       result.TimestampFirst,
		FieldOrderConfidence: result.FieldOrderConfidence,
		ParsedLines:          result.ParsedLines,
		AmbiguityNote:        result.AmbiguityNote,
		Delimiters:           make([]JSONDelimiter, 0),
		Matches:              make([]JSONMatch, 0),
	}

	delims := result.Delimiters
	if !opts.ShowAll && len(delims) > 1 {
		delims = delims[:1]
	}
	if result.BestDelimiter() == nil {
		delims = nil
	}
	for _, d := range delims {
		out.Delimiters = append(out.Delimiters, JSONDelimiter(d))
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1] // Only show best match
	}
	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Layout:     m.Format.Layout,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			Ambiguous:  m.Format.Ambiguous,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file with the detected format.
func writeStarterConfig(result *detector.DetectionResult, logFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no P2000 records detected")
	}

	content, err := generateStarterConfig(result, logFile)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateStarterConfig renders a config for the detected format. The
// result loads with config.Load.
func generateStarterConfig(result *detector.DetectionResult, logFile string) ([]byte, error) {
	// Get absolute path for log file if possible
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	cfg := config.DefaultConfig()
	cfg.Sources = []string{absLogFile}

	header := "# p2000 configuration\n# Generated by: p2000 detect\n"
	if delim := result.BestDelimiter(); delim != nil {
		cfg.Format.Delimiter = delim.Delimiter
		header += fmt.Sprintf("# Detected delimiter: %s (%.0f%% confidence), %s\n",
			delimiterName(delim.Delimiter), delim.Confidence*100, fieldOrderName(result.TimestampFirst))
	}
	if best := result.BestMatch(); best != nil {
		cfg.Timestamp.Layouts = []string{best.Format.Layout}
		header += fmt.Sprintf("# Detected format: %s (%.0f%% confidence)\n", best.Format.Name, best.Confidence*100)
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding starter config: %w", err)
	}

	footer := `
# Optional:
#   abbreviations: path of a file with one "ABBR: meaning" per line
#   places: path of a ';' separated place table (place;municipality;province;region)
#   extractor.detail_keywords: words that end a location, e.g. [Ongeval, Reanimatie]
`
	return []byte(header + "\n" + string(body) + footer), nil
}
