package parser

import (
	"strings"
	"time"

	"github.com/ccollicutt/p2000/pkg/message"
)

// Default record format values.
const (
	DefaultDelimiter     = "|"
	DefaultCommentPrefix = "#"
)

// Parser classifies raw lines and extracts message fields.
// A Parser holds only configuration and is safe for concurrent use.
type Parser struct {
	delimiter      string
	commentPrefix  string
	timestamps     *TimestampParser
	detailKeywords map[string]bool
}

// Option configures the Parser.
type Option func(*parserOptions)

type parserOptions struct {
	delimiter      string
	commentPrefix  string
	layouts        []string
	location       *time.Location
	detailKeywords []string
}

// WithDelimiter sets the field delimiter (default "|").
func WithDelimiter(d string) Option {
	return func(o *parserOptions) {
		if d != "" {
			o.delimiter = d
		}
	}
}

// WithCommentPrefix sets the prefix of lines to ignore. An empty prefix
// disables comment detection.
func WithCommentPrefix(prefix string) Option {
	return func(o *parserOptions) {
		o.commentPrefix = prefix
	}
}

// WithTimestampLayouts sets the Go time layouts tried, in order.
func WithTimestampLayouts(layouts ...string) Option {
	return func(o *parserOptions) {
		if len(layouts) > 0 {
			o.layouts = layouts
		}
	}
}

// WithLocation sets the time zone for timestamps without an offset.
func WithLocation(loc *time.Location) Option {
	return func(o *parserOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithDetailKeywords replaces the words that end a location candidate.
func WithDetailKeywords(words ...string) Option {
	return func(o *parserOptions) {
		o.detailKeywords = words
	}
}

// New creates a Parser with the decoder's default format.
func New(opts ...Option) *Parser {
	o := &parserOptions{
		delimiter:      DefaultDelimiter,
		commentPrefix:  DefaultCommentPrefix,
		layouts:        DefaultTimestampLayouts(),
		location:       time.UTC,
		detailKeywords: DefaultDetailKeywords(),
	}
	for _, opt := range opts {
		opt(o)
	}

	keywords := make(map[string]bool, len(o.detailKeywords))
	for _, w := range o.detailKeywords {
		if w = strings.TrimSpace(w); w != "" {
			keywords[strings.ToLower(w)] = true
		}
	}

	return &Parser{
		delimiter:      o.delimiter,
		commentPrefix:  o.commentPrefix,
		timestamps:     NewTimestampParser(o.layouts, o.location),
		detailKeywords: keywords,
	}
}

// Delimiter returns the configured field delimiter.
func (p *Parser) Delimiter() string {
	return p.delimiter
}

// Parse turns a raw line into a message. Lines that are not message
// records return a non-zero SkipReason and a zero Message.
func (p *Parser) Parse(line RawLine) (message.Message, SkipReason) {
	tok, reason := p.Classify(line)
	if reason != SkipNone {
		return message.Message{}, reason
	}

	ex := p.Extract(tok.Payload)

	var msgType *string
	if tok.MessageType != "" {
		msgType = &tok.MessageType
	}

	msg, err := message.New(message.Fields{
		Timestamp:    tok.Timestamp,
		Protocol:     tok.Protocol,
		Address:      tok.Address,
		Frequency:    tok.Frequency,
		Capcodes:     tok.Capcodes,
		MessageType:  msgType,
		Priority:     ex.Priority,
		IncidentCode: ex.IncidentCode,
		Location:     ex.Location,
		Detail:       ex.Detail,
		RawPayload:   tok.Payload,
		Source:       line.Source,
		LineNum:      line.LineNum,
	})
	if err != nil {
		// Classify already guarantees capcodes; keep the line skipped
		// rather than storing an invalid message.
		return message.Message{}, SkipNoCapcodes
	}

	return msg, SkipNone
}
