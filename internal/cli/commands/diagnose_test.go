package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/p2000/pkg/config"
)

func TestNewDiagnoseCommand(t *testing.T) {
	cmd := NewDiagnoseCommand(&GlobalOptions{})

	if cmd.Use != "diagnose [log-file...]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	// Check verbose flag exists
	if cmd.Flags().Lookup("verbose") == nil {
		t.Error("Missing verbose flag")
	}
}

func TestCheckConfigExists(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "log:\n  level: info\n")

	tests := []struct {
		name       string
		path       string
		wantStatus string
		wantMsg    string
	}{
		{"not found", "/nonexistent/config.yaml", "error", "not found"},
		{"directory", t.TempDir(), "error", "directory"},
		{"found", configPath, "ok", "Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkConfigExists(tt.path)
			if result.Status != tt.wantStatus {
				t.Errorf("Expected %s status, got %s", tt.wantStatus, result.Status)
			}
			if !strings.Contains(result.Message, tt.wantMsg) {
				t.Errorf("Expected %q in message, got: %s", tt.wantMsg, result.Message)
			}
		})
	}
}

func TestCheckConfigParseable(t *testing.T) {
	ctx := context.Background()

	cfg, result := checkConfigParseable(ctx, "")
	if result.Status != "ok" || cfg == nil {
		t.Fatalf("defaults: status %s, cfg %v", result.Status, cfg)
	}
	if !strings.Contains(result.Message, "defaults") {
		t.Errorf("Expected defaults message, got: %s", result.Message)
	}

	badPath := writeFile(t, "bad.yaml", "format: [unclosed\n")
	cfg, result = checkConfigParseable(ctx, badPath)
	if result.Status != "error" || cfg != nil {
		t.Errorf("invalid yaml: status %s, cfg %v", result.Status, cfg)
	}
	if len(result.Suggests) == 0 {
		t.Error("Expected suggestions for invalid yaml")
	}
}

func TestCheckSources(t *testing.T) {
	logPath := writeFile(t, "p2000.log", testLog)
	emptyPath := writeFile(t, "empty.log", "")

	tests := []struct {
		name         string
		patterns     []string
		wantStatuses []string
		wantFiles    int
	}{
		{"stdin", nil, []string{"warning"}, 0},
		{"file", []string{logPath}, []string{"ok"}, 1},
		{"empty file", []string{emptyPath}, []string{"warning"}, 1},
		{"glob", []string{filepath.Join(filepath.Dir(logPath), "*.log")}, []string{"ok"}, 1},
		{"missing", []string{"/nonexistent/p2000.log"}, []string{"error", "error"}, 0},
		{"directory", []string{t.TempDir()}, []string{"error", "error"}, 0},
		{"bad pattern", []string{"logs/[.log"}, []string{"error", "error"}, 0},
		{"mixed", []string{logPath, "/nonexistent/p2000.log"}, []string{"ok", "error"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, files := checkSources(tt.patterns)

			var statuses []string
			for _, r := range results {
				statuses = append(statuses, r.Status)
			}
			if strings.Join(statuses, ",") != strings.Join(tt.wantStatuses, ",") {
				t.Errorf("statuses = %v, want %v", statuses, tt.wantStatuses)
			}
			if len(files) != tt.wantFiles {
				t.Errorf("len(files) = %d, want %d", len(files), tt.wantFiles)
			}
		})
	}
}

func TestCheckParseRate(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate defaults: %v", err)
	}

	tests := []struct {
		name       string
		content    string
		wantStatus string
		wantMsg    string
	}{
		{"good", testLog, "ok", "4/5 sample lines are messages"},
		{"wrong delimiter", semicolonLog, "error", "No messages in 3 sample lines"},
		{"mostly noise", "FLEX|a\nFLEX|b\nFLEX|c\nFLEX|d\nFLEX|e\n" + testLog, "warning", "Only 4/10"},
		{"comments only", "# header\n\n# footer\n", "warning", "No record lines"},
		{"no timestamps", "FLEX|?|a|b|1|ALN|P1 x\nFLEX|?|a|b|2|ALN|A1 y\n", "warning", "no readable timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "p2000.log", tt.content)
			result := checkParseRate(ctx, cfg, path, &DiagnoseOptions{})

			if result.Status != tt.wantStatus {
				t.Errorf("Expected %s status, got %s (%s)", tt.wantStatus, result.Status, result.Message)
			}
			if !strings.Contains(result.Message, tt.wantMsg) {
				t.Errorf("Expected %q in message, got: %s", tt.wantMsg, result.Message)
			}
		})
	}
}

func TestCheckParseRate_SuggestsDetectedFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("Validate defaults: %v", err)
	}
	path := writeFile(t, "export.csv", semicolonLog)

	result := checkParseRate(context.Background(), cfg, path, &DiagnoseOptions{})

	hints := strings.Join(result.Suggests, "\n")
	if !strings.Contains(hints, `Detected delimiter: ";"`) {
		t.Errorf("Expected detected delimiter hint, got:\n%s", hints)
	}
	if !strings.Contains(hints, "02-01-2006 15:04:05") {
		t.Errorf("Expected detected layout hint, got:\n%s", hints)
	}
}

func TestCheckAbbreviations(t *testing.T) {
	good := writeFile(t, "abbr.txt", "P1: Spoed\n")
	empty := writeFile(t, "empty.txt", "\n")

	if r := checkAbbreviations(good); r.Status != "ok" {
		t.Errorf("good file: status %s (%s)", r.Status, r.Message)
	}
	if r := checkAbbreviations(empty); r.Status != "warning" {
		t.Errorf("empty file: status %s", r.Status)
	}
	if r := checkAbbreviations("/nonexistent/abbr.txt"); r.Status != "error" {
		t.Errorf("missing file: status %s", r.Status)
	}
}

func TestCheckPlaces(t *testing.T) {
	good := writeFile(t, "places.csv", "place;province\nUtrecht;Utrecht\n")
	short := writeFile(t, "short.csv", "place\nEe\n")
	noHeader := writeFile(t, "noheader.csv", "Utrecht;Utrecht\n")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"good table", good, "ok"},
		{"only short names", short, "warning"},
		{"no place column", noHeader, "error"},
		{"missing file", "/nonexistent/places.csv", "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r := checkPlaces(tt.path); r.Status != tt.want {
				t.Errorf("status %s (%s), want %s", r.Status, r.Message, tt.want)
			}
		})
	}
}

func TestRunDiagnose(t *testing.T) {
	logPath := writeFile(t, "p2000.log", testLog)
	configPath := writeFile(t, "p2000.yaml", "sources:\n  - "+logPath+"\n")

	var buf bytes.Buffer
	if err := runDiagnose(context.Background(), &buf, configPath, nil, &DiagnoseOptions{Verbose: true}); err != nil {
		t.Fatalf("runDiagnose failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== p2000 Diagnostics ===",
		"[PASS] Config File",
		"[PASS] Config Syntax",
		"[PASS] Source: " + logPath,
		"[PASS] Parse Test: " + logPath,
		"Skipped (too_few_fields): 1",
		"Sample match:",
		"Summary: 4 passed, 0 warnings, 0 errors",
		"Configuration looks good!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q\n%s", want, out)
		}
	}
}

func TestRunDiagnose_MissingConfig(t *testing.T) {
	var buf bytes.Buffer
	if err := runDiagnose(context.Background(), &buf, "/nonexistent/p2000.yaml", nil, &DiagnoseOptions{}); err != nil {
		t.Fatalf("runDiagnose failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "[FAIL] Config File") {
		t.Errorf("Output missing config failure\n%s", out)
	}
	if strings.Contains(out, "Config Syntax") {
		t.Error("Diagnostics continued after a missing config")
	}
	if !strings.Contains(out, "Fix the errors above") {
		t.Errorf("Output missing error summary\n%s", out)
	}
}

func TestRunDiagnose_Command(t *testing.T) {
	logPath := writeFile(t, "p2000.log", testLog)

	out, _, err := execute(t, NewDiagnoseCommand(&GlobalOptions{}), "", logPath)
	if err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	if !strings.Contains(out, "No config file given, using defaults") {
		t.Errorf("Output missing defaults notice\n%s", out)
	}
	if !strings.Contains(out, "Summary: 3 passed, 0 warnings, 0 errors") {
		t.Errorf("Output missing summary\n%s", out)
	}
}
