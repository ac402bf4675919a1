package parser

import "context"

// LineSource provides an iterator over raw input lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next raw line, including blank and malformed ones.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*RawLine, error)

	// Name identifies the input currently being read, for diagnostics.
	Name() string

	// Close releases any resources held by the source.
	Close() error
}
