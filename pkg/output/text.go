package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/p2000/pkg/message"
	"github.com/ccollicutt/p2000/pkg/stats"
)

// TimeLayout is the timestamp layout used in text output.
const TimeLayout = "2006-01-02 15:04:05"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "P2000: %d messages, %d shown, %d lines skipped\n",
		report.Summary.Total,
		len(report.Messages),
		report.Summary.LinesSkipped)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== P2000 Messages ===")
	fmt.Fprintln(w)

	for _, m := range report.Messages {
		f.formatMessage(m, w)
	}
	if len(report.Messages) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d of %d messages shown, %d lines read, %d skipped\n",
		len(report.Messages),
		report.Summary.Total,
		report.Summary.LinesRead,
		report.Summary.LinesSkipped)

	if report.Metadata.Query != "" || report.Metadata.Priority != "" {
		fmt.Fprintf(w, "Filter: query=%q priority=%s\n", report.Metadata.Query, orDash(string(report.Metadata.Priority)))
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	if report.Metadata.Partial {
		fmt.Fprintf(w, "WARNING: input incomplete: %s\n", report.Metadata.SourceError)
	}

	return nil
}

func (f *TextFormatter) formatMessage(m message.Message, w io.Writer) {
	ts := "-"
	if t, ok := m.Timestamp(); ok {
		ts = t.Format(TimeLayout)
	}
	code, _ := m.IncidentCode()
	loc, _ := m.Location()

	fmt.Fprintf(w, "%-19s  %s  %-8s  %-20s  %s\n",
		ts,
		PriorityTag(m.Priority(), f.opts.Color),
		orDash(code),
		orDash(loc),
		orDash(m.Detail()))

	if !f.opts.Verbose {
		return
	}

	msgType, _ := m.MessageType()
	fmt.Fprintf(w, "    capcodes: %s\n", strings.Join(m.Capcodes(), ", "))
	fmt.Fprintf(w, "    protocol: %s  address: %s  frequency: %s  type: %s\n",
		orDash(m.Protocol()), orDash(m.Address()), orDash(m.Frequency()), orDash(msgType))
	fmt.Fprintf(w, "    source: %s:%d\n", m.Source(), m.LineNum())
	if p, ok := f.opts.Places.Resolve(loc, m.RawPayload()); ok {
		fmt.Fprintf(w, "    place: %s\n", p)
	}
	for _, e := range f.opts.Abbreviations.Annotate(m.RawPayload()) {
		fmt.Fprintf(w, "    %s = %s\n", e.Abbreviation, e.Meaning)
	}
}

// FormatStats renders a summary as text.
func (f *TextFormatter) FormatStats(ctx context.Context, s *stats.Summary, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "P2000: %d messages, %d lines read, %d skipped\n",
			s.Total, s.LinesRead, s.LinesSkipped)
		return err
	}

	fmt.Fprintln(w, "=== P2000 Statistics ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Messages: %d\n", s.Total)
	if s.First != nil && s.Last != nil {
		fmt.Fprintf(w, "Time range: %s .. %s (%s)\n",
			s.First.Format(TimeLayout), s.Last.Format(TimeLayout), s.Span())
	}
	if s.MissingTimestamps > 0 {
		fmt.Fprintf(w, "Without timestamp: %d\n", s.MissingTimestamps)
	}
	fmt.Fprintf(w, "With location: %d\n", s.WithLocation)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By priority:")
	for _, pc := range s.ByPriority {
		if pc.Count == 0 && !f.opts.Verbose {
			continue
		}
		fmt.Fprintf(w, "  %s %6d\n", PriorityTag(pc.Priority, f.opts.Color), pc.Count)
	}
	fmt.Fprintln(w)

	f.formatCounts(w, "Top incident codes:", s.TopIncidentCodes)
	f.formatCounts(w, "Top capcodes:", s.TopCapcodes)

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Lines read: %d, skipped: %d\n", s.LinesRead, s.LinesSkipped)

	reasons := make([]string, 0, len(s.SkipReasons))
	for r := range s.SkipReasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "  %-15s %d\n", r, s.SkipReasons[r])
	}

	return nil
}

func (f *TextFormatter) formatCounts(w io.Writer, title string, counts []stats.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	for _, c := range counts {
		fmt.Fprintf(w, "  %-12s %6d\n", c.Value, c.Count)
	}
	fmt.Fprintln(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
