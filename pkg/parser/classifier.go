package parser

import (
	"strings"
	"unicode"
)

// minFields is the preamble (six fields) plus the payload.
const minFields = 7

// Preamble field positions for the protocol-first layout written by the
// decoder: FLEX|2026-01-01 20:14:32|1600/2/K/A|03.091|002029575 001503282|ALN|...
const (
	fieldProtocol = iota
	fieldTimestamp
	fieldAddress
	fieldFrequency
	fieldCapcodes
	fieldMessageType
)

// Classify decides whether line is a message record and splits it into
// preamble and payload. The returned reason is SkipNone for accepted lines.
func (p *Parser) Classify(line RawLine) (Tokenized, SkipReason) {
	text := trimNewline(line.Text)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Tokenized{}, SkipBlank
	}
	if p.commentPrefix != "" && strings.HasPrefix(trimmed, p.commentPrefix) {
		return Tokenized{}, SkipComment
	}

	fields := strings.Split(trimmed, p.delimiter)
	if len(fields) < minFields {
		return Tokenized{}, SkipTooFewFields
	}

	preamble := make([]string, minFields-1)
	for i := range preamble {
		preamble[i] = strings.TrimSpace(fields[i])
	}
	tsFirst := timestampFirst(preamble[0], preamble[1])
	if tsFirst {
		preamble[fieldProtocol], preamble[fieldTimestamp] = preamble[fieldTimestamp], preamble[fieldProtocol]
	}

	capcodes := splitCapcodes(preamble[fieldCapcodes])
	if len(capcodes) == 0 {
		return Tokenized{}, SkipNoCapcodes
	}

	tok := Tokenized{
		Protocol:       preamble[fieldProtocol],
		TimestampText:  preamble[fieldTimestamp],
		Address:        preamble[fieldAddress],
		Frequency:      preamble[fieldFrequency],
		Capcodes:       capcodes,
		MessageType:    preamble[fieldMessageType],
		Payload:        strings.TrimSpace(strings.Join(fields[minFields-1:], p.delimiter)),
		TimestampFirst: tsFirst,
	}

	if ts, err := p.timestamps.Parse(tok.TimestampText); err == nil {
		tok.Timestamp = &ts
	}

	return tok, SkipNone
}

// timestampFirst reports whether a line uses timestamp|protocol|... order
// instead of the decoder's protocol|timestamp|... order.
func timestampFirst(first, second string) bool {
	if first == "" || second == "" {
		return false
	}
	return unicode.IsDigit(rune(first[0])) && isTag(second)
}

func isTag(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// splitCapcodes splits the capcode field on whitespace and commas.
// Order and duplicates are kept.
func splitCapcodes(field string) []string {
	return strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}
