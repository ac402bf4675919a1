package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/p2000/pkg/abbrev"
	"github.com/ccollicutt/p2000/pkg/config"
	"github.com/ccollicutt/p2000/pkg/detector"
	"github.com/ccollicutt/p2000/pkg/parser"
	"github.com/ccollicutt/p2000/pkg/places"
)

// diagnoseSampleLines is how many lines of the first source are parsed.
const diagnoseSampleLines = 100

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *GlobalOptions) *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [log-file...]",
		Short: "Diagnose configuration and input problems",
		Long: `Diagnose common configuration and input problems.

This command checks:
- Config file syntax and structure (--config)
- Source file existence and accessibility
- How many lines of the first source parse as messages
- The abbreviations file
- The place table

Example:
  p2000 diagnose p2000.log
  p2000 --config p2000.yaml diagnose -v  # verbose output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), g.ConfigFile, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, args []string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	if configPath != "" {
		result := checkConfigExists(configPath)
		results = append(results, result)
		if result.Status == "error" {
			printDiagnostics(w, results, opts)
			return nil
		}
	}

	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Sources
	}

	sourceResults, files := checkSources(patterns)
	results = append(results, sourceResults...)

	if len(files) > 0 {
		results = append(results, checkParseRate(ctx, cfg, files[0], opts))
	}

	if cfg.Abbreviations != "" {
		results = append(results, checkAbbreviations(cfg.Abbreviations))
	}
	if cfg.Places != "" {
		results = append(results, checkPlaces(cfg.Places))
	}

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'p2000 detect <log-file> --write-config p2000.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
				"Check key names against 'p2000 detect --write-config' output",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	if path == "" {
		result.Message = "No config file given, using defaults"
	} else {
		result.Message = "Config file loaded successfully"
	}
	result.Details = []string{
		fmt.Sprintf("Delimiter: %s", strconv.Quote(cfg.Format.Delimiter)),
		fmt.Sprintf("Timestamp layouts: %s", strings.Join(cfg.Timestamp.Layouts, ", ")),
		fmt.Sprintf("Time zone: %s", cfg.Timestamp.Location()),
		fmt.Sprintf("Sources: %d", len(cfg.Sources)),
	}
	return cfg, result
}

// checkSources checks every source pattern and returns the readable files.
func checkSources(patterns []string) ([]DiagnosticResult, []string) {
	if len(patterns) == 0 {
		return []DiagnosticResult{{
			Check:   "Sources",
			Status:  "warning",
			Message: "No sources given, input will be read from stdin",
			Suggests: []string{
				"Pass log files as arguments",
				"Or add a sources section to your config, e.g. sources: [\"logs/*.log\"]",
			},
		}}, nil
	}

	results := []DiagnosticResult{}
	var readable []string

	for _, pattern := range patterns {
		result := DiagnosticResult{
			Check: fmt.Sprintf("Source: %s", pattern),
		}

		files, err := parser.ExpandGlobs([]string{pattern})
		switch {
		case err != nil:
			result.Status = "error"
			result.Message = fmt.Sprintf("Invalid glob pattern: %v", err)
		case len(files) == 1 && files[0] == pattern:
			result.Status, result.Message, result.Suggests = checkFile(pattern)
			if result.Status != "error" {
				readable = append(readable, pattern)
			}
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("Matches %d file(s)", len(files))
			result.Details = append(result.Details, files...)
			readable = append(readable, files...)
		}

		results = append(results, result)
	}

	if len(readable) == 0 {
		results = append(results, DiagnosticResult{
			Check:   "Sources Summary",
			Status:  "error",
			Message: "No accessible log files found",
			Suggests: []string{
				"Ensure at least one log file exists and is readable",
			},
		})
	}

	return results, readable
}

func checkFile(path string) (status, message string, suggests []string) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return "error", "File does not exist", []string{
			"Check if the log file path is correct",
			"Glob patterns such as logs/**/*.log are supported",
		}
	case err != nil:
		return "error", fmt.Sprintf("Cannot access file: %v", err), []string{"Check file permissions"}
	case info.IsDir():
		return "error", "Path is a directory, not a file", []string{
			"Use a glob pattern to match files in directory",
			"Example: logs/*.log",
		}
	case info.Size() == 0:
		return "warning", "File is empty (0 bytes)", nil
	}
	return "ok", fmt.Sprintf("File exists (%d bytes)", info.Size()), nil
}

// checkParseRate parses the head of path with the configured settings.
func checkParseRate(ctx context.Context, cfg *config.Config, path string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Parse Test: %s", path),
	}

	src := parser.NewFileSource([]string{path})
	defer src.Close()
	p := parser.New(cfg.ParserOptions()...)

	var (
		read, accepted, noTime int
		skipped                = map[parser.SkipReason]int{}
		sampleFail             string
		sampleMatch            string
	)
	for read < diagnoseSampleLines {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Status = "warning"
			result.Message = fmt.Sprintf("Cannot read file: %v", err)
			return result
		}
		read++

		msg, reason := p.Parse(*line)
		if reason != parser.SkipNone {
			skipped[reason]++
			if reason != parser.SkipBlank && reason != parser.SkipComment && sampleFail == "" {
				sampleFail = line.Text
			}
			continue
		}
		accepted++
		if sampleMatch == "" {
			sampleMatch = line.Text
		}
		if _, ok := msg.Timestamp(); !ok {
			noTime++
		}
	}

	candidates := read - skipped[parser.SkipBlank] - skipped[parser.SkipComment]

	switch {
	case candidates == 0:
		result.Status = "warning"
		result.Message = "No record lines in the first lines of the file"
		return result
	case accepted == 0:
		result.Status = "error"
		result.Message = fmt.Sprintf("No messages in %d sample lines", candidates)
		result.Suggests = []string{
			"The delimiter may not match your log format",
			"Use 'p2000 detect " + path + "' to find the correct settings",
		}
		if det := suggestFormat(ctx, path); len(det) > 0 {
			result.Suggests = append(result.Suggests, det...)
		}
	case accepted < candidates/2:
		result.Status = "warning"
		result.Message = fmt.Sprintf("Only %d/%d sample lines are messages", accepted, candidates)
	case noTime > accepted/2:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d/%d sample messages have no readable timestamp", noTime, accepted)
		result.Suggests = []string{
			"Add the layout of your timestamps to timestamp.layouts",
			"Use 'p2000 detect " + path + "' to find the layout",
		}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%d/%d sample lines are messages", accepted, candidates)
	}

	result.Details = append(result.Details, formatSkipped(skipped)...)
	if sampleFail != "" && result.Status != "ok" {
		result.Details = append(result.Details, "Sample line that didn't parse:", truncate(sampleFail, 80))
	}
	if opts.Verbose && sampleMatch != "" {
		result.Details = append(result.Details, "Sample match:", truncate(sampleMatch, 80))
	}
	return result
}

func suggestFormat(ctx context.Context, path string) []string {
	d := detector.New(detector.WithSampleSize(diagnoseSampleLines))
	res, err := d.DetectFromFile(ctx, path)
	if err != nil || !res.HasMatch() {
		return nil
	}
	out := []string{fmt.Sprintf("Detected delimiter: %s", strconv.Quote(res.BestDelimiter().Delimiter))}
	if best := res.BestMatch(); best != nil {
		out = append(out, fmt.Sprintf("Detected timestamp layout: %s", best.Format.Layout))
	}
	return out
}

func formatSkipped(skipped map[parser.SkipReason]int) []string {
	var out []string
	for _, r := range parser.SkipReasons() {
		if n := skipped[r]; n > 0 {
			out = append(out, fmt.Sprintf("Skipped (%s): %d", r, n))
		}
	}
	return out
}

func checkAbbreviations(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Abbreviations",
	}

	table, err := abbrev.Load(path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot load abbreviations: %v", err)
		result.Suggests = []string{"Check the abbreviations path in your config"}
		return result
	}
	if table.Len() == 0 {
		result.Status = "warning"
		result.Message = "Abbreviations file has no entries"
		result.Suggests = []string{`Write one "ABBR: meaning" per line`}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d abbreviations loaded", table.Len())
	return result
}

func checkPlaces(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Places",
	}

	table, err := places.Load(path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot load places: %v", err)
		result.Suggests = []string{
			"Check the places path in your config",
			`The first row must name the columns, e.g. "place;municipality;province;region"`,
		}
		return result
	}
	if table.Len() == 0 {
		result.Status = "warning"
		result.Message = "Place table has no usable rows"
		result.Suggests = []string{fmt.Sprintf("Place names need at least %d characters", places.MinNameLength)}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d places loaded", table.Len())
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== p2000 Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before reading logs.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
