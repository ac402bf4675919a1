package detector

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

var decoderLines = []string{
	"FLEX|2026-01-01 20:14:32|1600/2/K/A|03.091|002029575 001503282|ALN|P 2 BDH-07 Ongeval Gangetje Leiden 169252",
	"FLEX|2026-01-01 20:14:40|1600/2/K/A|03.091|001503900|ALN|A1 Utrecht Rit 12345",
	"FLEX|2026-01-01 20:15:02|1600/2/K/A|03.091|12345,67890|ALN|P1 BDH-07 Amsterdam woningbrand",
}

func TestDetector_DetectFromLines_Decoder(t *testing.T) {
	d := New()
	result := d.DetectFromLines(decoderLines)

	if !result.HasMatch() {
		t.Fatal("Expected to detect a format")
	}

	delim := result.BestDelimiter()
	if delim.Delimiter != "|" {
		t.Errorf("Expected delimiter |, got %q", delim.Delimiter)
	}
	if delim.Confidence != 1.0 {
		t.Errorf("Expected 100%% delimiter confidence, got %.1f%%", delim.Confidence*100)
	}

	if result.TimestampFirst {
		t.Error("Expected protocol-first field order")
	}
	if result.FieldOrderConfidence != 1.0 {
		t.Errorf("Expected field order confidence 1.0, got %.2f", result.FieldOrderConfidence)
	}

	best := result.BestMatch()
	if best == nil {
		t.Fatal("Expected a timestamp format")
	}
	if best.Format.Name != "Decoder datetime" {
		t.Errorf("Expected Decoder datetime, got %s", best.Format.Name)
	}
	if best.MatchCount != 3 || result.ParsedLines != 3 {
		t.Errorf("Expected 3 matches, got %d (parsed %d)", best.MatchCount, result.ParsedLines)
	}
}

func TestDetector_DetectFromLines_Semicolon(t *testing.T) {
	lines := []string{
		"FLEX;2026-01-01T20:14:32Z;1600/2/K/A;03.091;002029575;ALN;A1 Rit 1",
		"FLEX;2026-01-01T20:14:40Z;1600/2/K/A;03.091;002029575;ALN;A2 Rit 2",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if got := result.BestDelimiter(); got == nil || got.Delimiter != ";" {
		t.Fatalf("Expected delimiter ;, got %+v", got)
	}

	best := result.BestMatch()
	if best == nil || best.Format.Name != "ISO 8601 with timezone" {
		t.Errorf("Expected ISO 8601 with timezone, got %+v", best)
	}
}

func TestDetector_DetectFromLines_TimestampFirst(t *testing.T) {
	lines := []string{
		"2026-01-01 20:14:32|FLEX|1600/2/K/A|03.091|002029575|ALN|A1 Rit 1",
		"2026-01-01 20:14:40|FLEX|1600/2/K/A|03.091|002029575|ALN|A2 Rit 2",
		"FLEX|2026-01-01 20:14:50|1600/2/K/A|03.091|002029575|ALN|A2 Rit 3",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if !result.TimestampFirst {
		t.Error("Expected timestamp-first field order")
	}
	if got := result.FieldOrderConfidence; got < 0.66 || got > 0.67 {
		t.Errorf("Expected field order confidence 2/3, got %.3f", got)
	}
	if best := result.BestMatch(); best == nil || best.MatchCount != 3 {
		t.Errorf("Expected timestamps on all lines, got %+v", best)
	}
}

func TestDetector_DetectFromLines_NoMatch(t *testing.T) {
	lines := []string{
		"This is not a pager message",
		"Neither is this one",
	}

	d := New()
	result := d.DetectFromLines(lines)

	if result.HasMatch() {
		t.Errorf("Expected no match, got %+v", result.BestDelimiter())
	}
	if result.BestMatch() != nil {
		t.Error("Expected no timestamp format")
	}
	if result.SampledLines != 2 {
		t.Errorf("Expected 2 sampled lines, got %d", result.SampledLines)
	}
}

func TestDetector_DetectFromLines_EmptyInput(t *testing.T) {
	d := New()
	result := d.DetectFromLines(nil)

	if result.HasMatch() {
		t.Error("Expected no match for empty input")
	}
	if result.SampledLines != 0 {
		t.Errorf("Expected 0 sampled lines, got %d", result.SampledLines)
	}
}

func TestDetector_DetectFromLines_SkipsComments(t *testing.T) {
	lines := append([]string{"# exported by decoder", "", "   "}, decoderLines...)

	d := New()
	result := d.DetectFromLines(lines)

	if result.SampledLines != 3 {
		t.Errorf("Expected 3 sampled lines, got %d", result.SampledLines)
	}
	if result.BestDelimiter().Confidence != 1.0 {
		t.Errorf("Expected comments to be ignored, got %.2f", result.BestDelimiter().Confidence)
	}
}

func TestDetector_DetectFromLines_PartialConfidence(t *testing.T) {
	lines := append([]string{"garbage line"}, decoderLines...)

	d := New()
	result := d.DetectFromLines(lines)

	if got := result.BestDelimiter().Confidence; got != 0.75 {
		t.Errorf("Expected 75%% confidence, got %.1f%%", got*100)
	}
	// Timestamp confidence is over accepted lines only
	if got := result.BestMatch().Confidence; got != 1.0 {
		t.Errorf("Expected timestamp confidence 1.0, got %.2f", got)
	}
}

func TestDetector_DetectFromLines_AmbiguousFormat(t *testing.T) {
	lines := []string{
		"FLEX|01-02-2026 08:00:00|1600/2/K/A|03.091|002029575|ALN|A1 Rit 1",
		"FLEX|01-02-2026 08:00:10|1600/2/K/A|03.091|002029575|ALN|A1 Rit 2",
	}

	d := New()
	result := d.DetectFromLines(lines)

	best := result.BestMatch()
	if best == nil || !best.Format.Ambiguous {
		t.Fatalf("Expected ambiguous format, got %+v", best)
	}
	if result.AmbiguityNote == "" {
		t.Error("Expected ambiguity note to be set")
	}
}

func TestDetector_WithSampleSize(t *testing.T) {
	d := New(WithSampleSize(50))
	if d.sampleSize != 50 {
		t.Errorf("Expected sample size 50, got %d", d.sampleSize)
	}
}

func TestDetector_WithSampleSize_Invalid(t *testing.T) {
	d := New(WithSampleSize(-1))
	if d.sampleSize != DefaultSampleSize {
		t.Errorf("Expected default sample size %d, got %d", DefaultSampleSize, d.sampleSize)
	}
}

func TestDetector_WithDelimiters(t *testing.T) {
	d := New(WithDelimiters(";"))
	result := d.DetectFromLines(decoderLines)

	if result.HasMatch() {
		t.Error("Expected no match when | is not a candidate")
	}
	if len(result.Delimiters) != 1 {
		t.Errorf("Expected 1 candidate, got %d", len(result.Delimiters))
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "p2000.log")

	content := "# header\n"
	for _, l := range decoderLines {
		content += l + "\n"
	}
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	d := New(WithSampleSize(2))
	result, err := d.DetectFromFile(context.Background(), tmpFile)
	if err != nil {
		t.Fatalf("DetectFromFile failed: %v", err)
	}

	if result.SampledLines != 2 {
		t.Errorf("Expected 2 sampled lines, got %d", result.SampledLines)
	}
	if !result.HasMatch() {
		t.Fatal("Expected to detect a format")
	}
}

func TestDetector_DetectFromFile_NotFound(t *testing.T) {
	d := New()
	_, err := d.DetectFromFile(context.Background(), "/nonexistent/file.log")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestDefaultFormats(t *testing.T) {
	formats := DefaultFormats()
	if len(formats) == 0 {
		t.Error("Expected default formats to be non-empty")
	}

	// Every example must match its own pattern
	for _, f := range formats {
		if f.Pattern == nil {
			t.Errorf("Format %s has nil pattern", f.Name)
			continue
		}
		if f.Layout == "" {
			t.Errorf("Format %s has empty layout", f.Name)
		}
		if len(f.Examples) == 0 {
			t.Errorf("Format %s has no examples", f.Name)
		}
		for _, ex := range f.Examples {
			if !f.Pattern.MatchString(ex) {
				t.Errorf("Format %s does not match its example %q", f.Name, ex)
			}
		}
	}
}
