package parser

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ccollicutt/p2000/pkg/message"
)

func TestParse_ExampleRecord(t *testing.T) {
	p := New()
	line := RawLine{
		Text:    "FLEX|2026-01-01 20:14:32|1600/2/K/A|03.091|12345,67890|ALN|P1 BDH-07 Amsterdam woningbrand",
		Source:  "p2000.log",
		LineNum: 7,
	}

	msg, reason := p.Parse(line)
	if reason != SkipNone {
		t.Fatalf("Parse() reason = %s, want none", reason)
	}

	if diff := cmp.Diff([]string{"12345", "67890"}, msg.Capcodes()); diff != "" {
		t.Errorf("Capcodes mismatch (-want +got):\n%s", diff)
	}
	if mt, ok := msg.MessageType(); !ok || mt != "ALN" {
		t.Errorf("MessageType() = %q, %v; want ALN", mt, ok)
	}
	if msg.Priority() != message.PriorityP1 {
		t.Errorf("Priority() = %q, want P1", msg.Priority())
	}
	if code, ok := msg.IncidentCode(); !ok || code != "BDH-07" {
		t.Errorf("IncidentCode() = %q, %v; want BDH-07", code, ok)
	}
	if loc, ok := msg.Location(); !ok || loc != "Amsterdam" {
		t.Errorf("Location() = %q, %v; want Amsterdam", loc, ok)
	}
	if msg.Detail() != "woningbrand" {
		t.Errorf("Detail() = %q, want woningbrand", msg.Detail())
	}
	if msg.RawPayload() != "P1 BDH-07 Amsterdam woningbrand" {
		t.Errorf("RawPayload() = %q", msg.RawPayload())
	}
	if ts, ok := msg.Timestamp(); !ok || !ts.Equal(time.Date(2026, 1, 1, 20, 14, 32, 0, time.UTC)) {
		t.Errorf("Timestamp() = %v, %v", ts, ok)
	}
	if msg.Source() != "p2000.log" || msg.LineNum() != 7 {
		t.Errorf("provenance = %s:%d, want p2000.log:7", msg.Source(), msg.LineNum())
	}
}

func TestParse_FreeTextPayload(t *testing.T) {
	p := New()
	msg, reason := p.Parse(RawLine{Text: "FLEX|2026-01-01 20:14:32|1600/2/K/A|03.091|002029575|ALN|informatie volgt"})
	if reason != SkipNone {
		t.Fatalf("Parse() reason = %s, want none", reason)
	}

	if msg.Priority() != message.PriorityUnknown {
		t.Errorf("Priority() = %q, want Unknown", msg.Priority())
	}
	if _, ok := msg.IncidentCode(); ok {
		t.Error("IncidentCode() present, want absent")
	}
	if _, ok := msg.Location(); ok {
		t.Error("Location() present, want absent")
	}
	if msg.Detail() != "informatie volgt" {
		t.Errorf("Detail() = %q, want %q", msg.Detail(), "informatie volgt")
	}
}

func TestParse_UnparseableTimestamp(t *testing.T) {
	p := New()
	msg, reason := p.Parse(RawLine{Text: "FLEX|??|1600/2/K/A|03.091|002029575||A1 Rit 461"})
	if reason != SkipNone {
		t.Fatalf("Parse() reason = %s, want none", reason)
	}
	if _, ok := msg.Timestamp(); ok {
		t.Error("Timestamp() present, want absent")
	}
	if _, ok := msg.MessageType(); ok {
		t.Error("MessageType() present, want absent")
	}
	if msg.Priority() != message.PriorityA1 {
		t.Errorf("Priority() = %q, want A1", msg.Priority())
	}
}

func TestParse_Totality(t *testing.T) {
	p := New()
	inputs := []string{
		"",
		"   ",
		"#",
		"|||||||",
		"||||||",
		"FLEX|||||| ",
		"FLEX|x|y|z|1|ALN|P1",
		"2026-01-01 20:14:32|FLEX|a|b|c d|e|f",
		"\x00\x01|\xff|||1||",
		"FLEX|2026-01-01 20:14:32|1600/2/K/A|03.091|002029575|ALN|P 2 BDH-07 Ongeval Gangetje Leiden 169252",
	}

	for _, in := range inputs {
		msg, reason := p.Parse(RawLine{Text: in})
		if reason != SkipNone {
			continue
		}
		if len(msg.Capcodes()) == 0 {
			t.Errorf("Parse(%q) accepted a message without capcodes", in)
		}
		if !msg.Priority().Valid() {
			t.Errorf("Parse(%q) priority %q is not enumerated", in, msg.Priority())
		}
	}
}

func TestParse_SkippedLinesReturnReason(t *testing.T) {
	p := New()
	for _, in := range []string{"", "  ", "# header", "FLEX|x"} {
		if _, reason := p.Parse(RawLine{Text: in}); reason == SkipNone {
			t.Errorf("Parse(%q) accepted, want skip", in)
		}
	}
}

func TestNew_Options(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	p := New(
		WithDelimiter(";"),
		WithTimestampLayouts("02/01/2006 15:04"),
		WithLocation(loc),
	)

	if p.Delimiter() != ";" {
		t.Errorf("Delimiter() = %q, want ;", p.Delimiter())
	}

	msg, reason := p.Parse(RawLine{Text: "FLEX;01/02/2026 10:00;addr;freq;1;ALN;B test"})
	if reason != SkipNone {
		t.Fatalf("Parse() reason = %s", reason)
	}
	ts, ok := msg.Timestamp()
	if !ok || !ts.Equal(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp() = %v, %v; want 2026-02-01 09:00 UTC", ts, ok)
	}

	// Empty options keep defaults.
	if New(WithDelimiter(""), WithTimestampLayouts(), WithLocation(nil)).Delimiter() != DefaultDelimiter {
		t.Error("empty WithDelimiter replaced the default")
	}
}
