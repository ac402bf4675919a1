package parser

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimestampLayout is the layout written by common FLEX decoders.
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// DefaultTimestampLayouts returns the layouts tried when none are configured.
// The decoder layout comes first; the rest are fallbacks seen in exports.
func DefaultTimestampLayouts() []string {
	return []string{
		DefaultTimestampLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"02-01-2006 15:04:05",
		"2006/01/02 15:04:05",
	}
}

// TimestampParser parses the timestamp field of a message line.
type TimestampParser struct {
	layouts  []string
	location *time.Location
}

// NewTimestampParser creates a parser that tries layouts in order.
// Timestamps without an explicit offset are interpreted in loc
// (UTC when loc is nil).
func NewTimestampParser(layouts []string, loc *time.Location) *TimestampParser {
	if len(layouts) == 0 {
		layouts = DefaultTimestampLayouts()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimestampParser{
		layouts:  append([]string(nil), layouts...),
		location: loc,
	}
}

// Parse returns the first successful parse of s.
// Returns zero time and an error if no layout matches.
func (p *TimestampParser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range p.layouts {
		if ts, err := time.ParseInLocation(layout, s, p.location); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("timestamp %q matches none of %d layout(s)", s, len(p.layouts))
}

// Layouts returns the configured layouts in the order they are tried.
func (p *TimestampParser) Layouts() []string {
	return append([]string(nil), p.layouts...)
}
