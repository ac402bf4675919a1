package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ccollicutt/p2000/pkg/message"
)

// A token boundary is any character that is not a letter, digit or hyphen,
// so "B" in "B-12" or "P1" in "P12" are not whole tokens.
var (
	priorityPattern     = regexp.MustCompile(`(?:^|[^A-Za-z0-9-])(P ?[1-3]|A ?[0-2]|B)(?:$|[^A-Za-z0-9-])`)
	incidentCodePattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9-])([A-Z]{2,4}-[0-9]{1,3})(?:$|[^A-Za-z0-9-])`)
	wordPattern         = regexp.MustCompile(`\S+`)
)

// detailNoise is trimmed from the edges of the remaining detail pieces.
const detailNoise = " \t,;:-|"

// DefaultDetailKeywords are incident descriptions that commonly follow the
// incident code. A keyword ends a location candidate.
func DefaultDetailKeywords() []string {
	return []string{
		"Ongeval", "Brand", "Woningbrand", "Gebouwbrand", "Buitenbrand",
		"Autobrand", "Reanimatie", "Ambu", "Dia", "Rit", "Assistentie",
		"Liftopsluiting", "Gaslekkage", "Nacontrole", "Dienstverlening",
		"Alarm", "OMS", "Stormschade", "Waterongeval", "Letsel", "Hulpverlening",
	}
}

// Extraction holds the fields pulled out of a payload.
// Nil pointers mean the field was not found.
type Extraction struct {
	Priority     message.Priority
	IncidentCode *string
	Location     *string
	Detail       string
}

type span struct {
	start, end int
}

// Extract parses priority, incident code, location and detail from a
// payload. It never fails; missing fields are reported as absent.
func (p *Parser) Extract(payload string) Extraction {
	ex := Extraction{Priority: message.PriorityUnknown}
	var removed []span

	var prioSpan, codeSpan *span
	if m := priorityPattern.FindStringSubmatchIndex(payload); m != nil {
		ex.Priority = message.ParsePriority(payload[m[2]:m[3]])
		prioSpan = &span{m[2], m[3]}
		removed = append(removed, *prioSpan)
	}

	for _, m := range incidentCodePattern.FindAllStringSubmatchIndex(payload, -1) {
		s := span{m[2], m[3]}
		if prioSpan != nil && overlaps(s, *prioSpan) {
			continue
		}
		code := payload[s.start:s.end]
		ex.IncidentCode = &code
		codeSpan = &s
		removed = append(removed, s)
		break
	}

	anchor := -1
	switch {
	case codeSpan != nil:
		anchor = codeSpan.end
	case prioSpan != nil:
		anchor = prioSpan.end
	}
	if anchor >= 0 {
		if loc, ok := p.locationAfter(payload, anchor, removed); ok {
			text := payload[loc.start:loc.end]
			ex.Location = &text
			removed = append(removed, loc)
		}
	}

	ex.Detail = detailWithout(payload, removed)
	return ex
}

// locationAfter isolates the location segment that follows anchor.
// The segment ends at the first comma; a comma-terminated segment is the
// location as a whole. Without a comma the location is the run of
// capitalised words up to the first word that starts descriptive detail.
// Spans already taken by the priority or incident code are never included.
func (p *Parser) locationAfter(payload string, anchor int, taken []span) (span, bool) {
	rest := payload[anchor:]
	commaBounded := false
	if i := strings.IndexByte(rest, ','); i >= 0 {
		rest = rest[:i]
		commaBounded = true
	}

	var loc *span
	for _, w := range wordPattern.FindAllStringIndex(rest, -1) {
		ws := span{anchor + w[0], anchor + w[1]}
		if overlapsAny(ws, taken) {
			if loc == nil {
				continue
			}
			break
		}

		if !commaBounded && !p.startsLocationWord(payload[ws.start:ws.end]) {
			break
		}
		if loc == nil {
			loc = &span{ws.start, ws.end}
		} else {
			loc.end = ws.end
		}
	}

	if loc == nil {
		return span{}, false
	}
	return *loc, true
}

func (p *Parser) startsLocationWord(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r) && !p.isDetailKeyword(word)
}

func (p *Parser) isDetailKeyword(word string) bool {
	word = strings.TrimRight(word, ".:;!?)")
	return p.detailKeywords[strings.ToLower(word)]
}

// detailWithout removes spans from payload and joins what is left.
// With nothing removed the payload is returned unchanged.
func detailWithout(payload string, spans []span) string {
	if len(spans) == 0 {
		return payload
	}

	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	var pieces []string
	pos := 0
	for _, s := range sorted {
		if s.start > pos {
			pieces = appendPiece(pieces, payload[pos:s.start])
		}
		if s.end > pos {
			pos = s.end
		}
	}
	if pos < len(payload) {
		pieces = appendPiece(pieces, payload[pos:])
	}

	return strings.Join(pieces, " ")
}

func appendPiece(pieces []string, piece string) []string {
	piece = strings.Trim(piece, detailNoise)
	if piece == "" {
		return pieces
	}
	return append(pieces, piece)
}

func overlaps(a, b span) bool {
	return a.start < b.end && b.start < a.end
}

func overlapsAny(s span, spans []span) bool {
	for _, o := range spans {
		if overlaps(s, o) {
			return true
		}
	}
	return false
}
