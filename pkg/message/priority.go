package message

import "strings"

// Priority is the urgency class announced in a P2000 payload.
type Priority string

const (
	PriorityP1      Priority = "P1"
	PriorityP2      Priority = "P2"
	PriorityP3      Priority = "P3"
	PriorityA0      Priority = "A0"
	PriorityA1      Priority = "A1"
	PriorityA2      Priority = "A2"
	PriorityB       Priority = "B"
	PriorityUnknown Priority = "Unknown"
)

// Priorities returns every priority, most urgent first.
func Priorities() []Priority {
	return []Priority{
		PriorityP1, PriorityA0,
		PriorityP2, PriorityA1,
		PriorityP3, PriorityA2, PriorityB,
		PriorityUnknown,
	}
}

// ParsePriority maps a priority token to the enumeration.
// Spaced spellings used by some decoders ("P 2", "A 1") are accepted.
// Anything unrecognized is PriorityUnknown.
func ParsePriority(s string) Priority {
	token := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	switch p := Priority(token); p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityA0, PriorityA1, PriorityA2, PriorityB:
		return p
	}
	return PriorityUnknown
}

// Valid reports whether p is one of the eight enumerated values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityA0, PriorityA1, PriorityA2, PriorityB, PriorityUnknown:
		return true
	}
	return false
}

func (p Priority) String() string {
	return string(p)
}

// Urgency orders priorities for display. Lower values are more urgent.
type Urgency int

const (
	UrgencyCritical Urgency = iota + 1
	UrgencyHigh
	UrgencyNormal
	UrgencyUnknown
)

// Rank returns the display urgency of a priority.
// It is used to pick colors, never to reorder messages.
func Rank(p Priority) Urgency {
	switch p {
	case PriorityP1, PriorityA0:
		return UrgencyCritical
	case PriorityP2, PriorityA1:
		return UrgencyHigh
	case PriorityP3, PriorityA2, PriorityB:
		return UrgencyNormal
	default:
		return UrgencyUnknown
	}
}

func (u Urgency) String() string {
	switch u {
	case UrgencyCritical:
		return "critical"
	case UrgencyHigh:
		return "high"
	case UrgencyNormal:
		return "normal"
	default:
		return "unknown"
	}
}
