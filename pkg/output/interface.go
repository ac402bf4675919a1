package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/p2000/pkg/abbrev"
	"github.com/ccollicutt/p2000/pkg/places"
	"github.com/ccollicutt/p2000/pkg/stats"
)

// Formatter renders messages and summaries in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// FormatStats renders a summary on its own.
	FormatStats(ctx context.Context, summary *stats.Summary, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds capcodes, address, frequency, provenance, the resolved
	// place and abbreviation expansions.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// Color styles priorities with ANSI colors (text only).
	Color bool

	// Abbreviations expands payload abbreviations in verbose output.
	Abbreviations *abbrev.Table

	// Places resolves the location in verbose output.
	Places *places.Table
}

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}
