package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ccollicutt/p2000/pkg/store"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(t, store.Filter{}, nil)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded struct {
		Summary struct {
			Total     int `json:"total"`
			LinesRead int `json:"lines_read"`
		} `json:"summary"`
		Messages []map[string]any `json:"messages"`
		Metadata struct {
			Sources []string `json:"sources"`
			Partial bool     `json:"partial"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if decoded.Summary.Total != 3 || decoded.Summary.LinesRead != 5 {
		t.Errorf("Summary = %+v", decoded.Summary)
	}
	if len(decoded.Messages) != 3 {
		t.Fatalf("Messages = %d, want 3", len(decoded.Messages))
	}
	if decoded.Messages[0]["incident_code"] != "BDH-07" {
		t.Errorf("first message incident_code = %v", decoded.Messages[0]["incident_code"])
	}

	// Absent optionals are null
	last := decoded.Messages[2]
	if v, ok := last["timestamp"]; !ok || v != nil {
		t.Errorf("timestamp = %v (present %v), want null", v, ok)
	}
	if v, ok := last["location"]; !ok || v != nil {
		t.Errorf("location = %v (present %v), want null", v, ok)
	}

	if len(decoded.Metadata.Sources) != 1 || decoded.Metadata.Partial {
		t.Errorf("Metadata = %+v", decoded.Metadata)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport(t, store.Filter{}, nil)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if _, ok := decoded["messages"]; ok {
		t.Error("Quiet output contains messages")
	}
	if decoded["total"] != float64(3) {
		t.Errorf("total = %v, want 3", decoded["total"])
	}
}

func TestJSONFormatter_Format_NoMatches(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(t, store.Filter{Text: "rotterdam"}, nil)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	msgs, ok := decoded["messages"].([]any)
	if !ok || len(msgs) != 0 {
		t.Errorf("messages = %v, want empty array", decoded["messages"])
	}
}

func TestJSONFormatter_FormatStats(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(t, store.Filter{}, nil)

	var buf bytes.Buffer
	if err := f.FormatStats(context.Background(), report.Summary, &buf); err != nil {
		t.Fatalf("FormatStats() error = %v", err)
	}

	var decoded struct {
		ByPriority []struct {
			Priority string `json:"priority"`
			Count    int    `json:"count"`
		} `json:"by_priority"`
		SkipReasons map[string]int `json:"skip_reasons"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded.ByPriority) != 8 {
		t.Errorf("by_priority has %d entries, want 8", len(decoded.ByPriority))
	}
	if decoded.SkipReasons["blank"] != 1 || decoded.SkipReasons["comment"] != 1 {
		t.Errorf("skip_reasons = %v", decoded.SkipReasons)
	}
}
