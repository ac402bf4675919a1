// Package parser turns raw P2000 log lines into structured messages.
package parser

import "time"

// RawLine is a single line of input before classification.
type RawLine struct {
	// Text is the line content without the trailing newline.
	Text string

	// Source is the file path (or "stdin") this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}

// Tokenized is the fixed preamble and free-text payload of an accepted line.
type Tokenized struct {
	Protocol string

	// TimestampText is the raw timestamp field; Timestamp is nil when it
	// could not be parsed with any configured layout.
	TimestampText string
	Timestamp     *time.Time

	Address   string
	Frequency string
	Capcodes  []string

	// MessageType is empty when the field is empty.
	MessageType string

	// Payload is the trimmed free text after the preamble.
	Payload string

	// TimestampFirst is set when the line was read as
	// timestamp|protocol|... rather than protocol|timestamp|...
	TimestampFirst bool
}

// SkipReason explains why a line was not accepted as a message.
type SkipReason int

const (
	// SkipNone means the line was accepted.
	SkipNone SkipReason = iota
	SkipBlank
	SkipComment
	SkipTooFewFields
	SkipNoCapcodes
)

// SkipReasons lists every reason a line can be skipped.
func SkipReasons() []SkipReason {
	return []SkipReason{SkipBlank, SkipComment, SkipTooFewFields, SkipNoCapcodes}
}

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipBlank:
		return "blank"
	case SkipComment:
		return "comment"
	case SkipTooFewFields:
		return "too_few_fields"
	case SkipNoCapcodes:
		return "no_capcodes"
	default:
		return "unknown"
	}
}
