// Package store keeps parsed messages in arrival order and answers queries
// over them.
package store

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ccollicutt/p2000/pkg/message"
)

// Filter selects messages. The zero Filter matches every message.
type Filter struct {
	// Text is matched case-insensitively as a substring of the location,
	// incident code, detail or raw payload. Only the empty string matches
	// everything; spaces are part of the text.
	Text string

	// Priority restricts results to one priority. Empty matches everything.
	Priority message.Priority
}

// IsZero reports whether f matches every message.
func (f Filter) IsZero() bool {
	return f.Text == "" && f.Priority == ""
}

// Store is an append-only, ordered collection of messages.
//
// Append is meant for a single ingestion pass. Once ingestion has finished,
// All, Search and Len may be called from any number of goroutines.
type Store struct {
	messages []message.Message
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Append adds m after every message already stored.
func (s *Store) Append(m message.Message) {
	s.messages = append(s.messages, m)
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	return len(s.messages)
}

// All returns every message in input order. The returned slice shares
// storage with the Store but is capacity-clipped, so appending to it never
// writes into the Store.
func (s *Store) All() []message.Message {
	return s.messages[:len(s.messages):len(s.messages)]
}

// Search returns the messages matching f, in input order. Results are
// recomputed on every call.
func (s *Store) Search(f Filter) []message.Message {
	if f.IsZero() {
		return s.All()
	}

	fold := cases.Fold()
	needle := fold.String(f.Text)

	var out []message.Message
	for _, m := range s.messages {
		if f.Priority != "" && m.Priority() != f.Priority {
			continue
		}
		if needle != "" && !matchesText(m, needle, fold) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesText(m message.Message, needle string, fold cases.Caser) bool {
	if loc, ok := m.Location(); ok && strings.Contains(fold.String(loc), needle) {
		return true
	}
	if code, ok := m.IncidentCode(); ok && strings.Contains(fold.String(code), needle) {
		return true
	}
	return strings.Contains(fold.String(m.Detail()), needle) ||
		strings.Contains(fold.String(m.RawPayload()), needle)
}
