package detector

import "regexp"

// TimestampFormat represents a known timestamp format for detection.
type TimestampFormat struct {
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern the whole timestamp field must match
	Layout     string         // Go time layout for parsing
	Examples   []string       // Example timestamps
	Ambiguous  bool           // True if format has date ordering ambiguity (MM/DD vs DD/MM)
}

// DefaultFormats returns the built-in timestamp formats to detect.
// Formats are ordered roughly by specificity (more specific patterns first).
func DefaultFormats() []*TimestampFormat {
	formats := []*TimestampFormat{
		// FLEX decoder output
		{
			Name:       "Decoder datetime",
			PatternStr: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`,
			Layout:     "2006-01-02 15:04:05",
			Examples:   []string{"2026-01-01 20:14:32"},
		},
		{
			Name:       "Datetime with milliseconds",
			PatternStr: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}$`,
			Layout:     "2006-01-02 15:04:05.000",
			Examples:   []string{"2026-01-01 20:14:32.120"},
		},
		{
			Name:       "ISO 8601 with timezone",
			PatternStr: `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:\d{2})$`,
			Layout:     "2006-01-02T15:04:05Z07:00",
			Examples:   []string{"2026-01-01T20:14:32Z", "2026-01-01T21:14:32+01:00"},
		},
		{
			Name:       "ISO 8601",
			PatternStr: `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`,
			Layout:     "2006-01-02T15:04:05",
			Examples:   []string{"2026-01-01T20:14:32"},
		},
		{
			Name:       "Slashed datetime",
			PatternStr: `^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}$`,
			Layout:     "2006/01/02 15:04:05",
			Examples:   []string{"2026/01/01 20:14:32"},
		},
		// Dutch exports write day first
		{
			Name:       "Dutch date (DD-MM-YYYY)",
			PatternStr: `^\d{2}-\d{2}-\d{4} \d{2}:\d{2}:\d{2}$`,
			Layout:     "02-01-2006 15:04:05",
			Examples:   []string{"01-01-2026 20:14:32"},
			Ambiguous:  true,
		},
		{
			Name:       "European date (DD/MM/YYYY)",
			PatternStr: `^\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}$`,
			Layout:     "02/01/2006 15:04:05",
			Examples:   []string{"01/01/2026 20:14:32"},
			Ambiguous:  true,
		},
		{
			Name:       "Short datetime (no seconds)",
			PatternStr: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`,
			Layout:     "2006-01-02 15:04",
			Examples:   []string{"2026-01-01 20:14"},
		},
	}

	// Compile all patterns
	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
