// Package stats summarizes a set of parsed messages.
package stats

import (
	"sort"
	"time"

	"github.com/ccollicutt/p2000/pkg/ingest"
	"github.com/ccollicutt/p2000/pkg/message"
	"github.com/ccollicutt/p2000/pkg/parser"
)

// DefaultTopN is the number of incident codes and capcodes reported.
const DefaultTopN = 10

// Count pairs a value with the number of messages carrying it.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// PriorityCount is the number of messages with one priority.
type PriorityCount struct {
	Priority message.Priority `json:"priority"`
	Count    int              `json:"count"`
}

// Summary describes a message set and, when available, how it was read.
type Summary struct {
	Total int `json:"total"`

	// ByPriority has one entry per priority, in urgency order.
	ByPriority []PriorityCount `json:"by_priority"`

	// ByUrgency is keyed by Urgency.String().
	ByUrgency map[string]int `json:"by_urgency"`

	TopIncidentCodes []Count `json:"top_incident_codes"`
	TopCapcodes      []Count `json:"top_capcodes"`

	// WithLocation counts messages where a location was recognized.
	WithLocation int `json:"with_location"`

	// First and Last are the earliest and latest timestamps, nil when no
	// message has one.
	First *time.Time `json:"first,omitempty"`
	Last  *time.Time `json:"last,omitempty"`

	MissingTimestamps int `json:"missing_timestamps"`

	LinesRead    int            `json:"lines_read"`
	LinesSkipped int            `json:"lines_skipped"`
	SkipReasons  map[string]int `json:"skip_reasons,omitempty"`
}

// Option configures Compute.
type Option func(*options)

type options struct {
	topN int
}

// WithTopN sets how many incident codes and capcodes are reported.
// Values below one keep the default.
func WithTopN(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topN = n
		}
	}
}

// Compute summarizes msgs. res may be nil when the ingestion counters are
// not known.
func Compute(msgs []message.Message, res *ingest.Result, opts ...Option) *Summary {
	o := &options{topN: DefaultTopN}
	for _, opt := range opts {
		opt(o)
	}

	s := &Summary{
		Total:     len(msgs),
		ByUrgency: make(map[string]int),
	}

	byPriority := make(map[message.Priority]int)
	codes := make(map[string]int)
	capcodes := make(map[string]int)

	for _, m := range msgs {
		byPriority[m.Priority()]++
		s.ByUrgency[message.Rank(m.Priority()).String()]++

		if code, ok := m.IncidentCode(); ok {
			codes[code]++
		}
		if _, ok := m.Location(); ok {
			s.WithLocation++
		}
		for _, c := range m.Capcodes() {
			capcodes[c]++
		}

		ts, ok := m.Timestamp()
		if !ok {
			s.MissingTimestamps++
			continue
		}
		if s.First == nil || ts.Before(*s.First) {
			t := ts
			s.First = &t
		}
		if s.Last == nil || ts.After(*s.Last) {
			t := ts
			s.Last = &t
		}
	}

	for _, p := range message.Priorities() {
		s.ByPriority = append(s.ByPriority, PriorityCount{Priority: p, Count: byPriority[p]})
	}
	s.TopIncidentCodes = top(codes, o.topN)
	s.TopCapcodes = top(capcodes, o.topN)

	if res != nil {
		s.LinesRead = res.LinesRead
		s.LinesSkipped = res.TotalSkipped()
		if s.LinesSkipped > 0 {
			s.SkipReasons = make(map[string]int)
			for _, r := range parser.SkipReasons() {
				if n := res.Skipped[r]; n > 0 {
					s.SkipReasons[r.String()] = n
				}
			}
		}
	}

	return s
}

// Span returns the time between the first and last timestamp.
func (s *Summary) Span() time.Duration {
	if s.First == nil || s.Last == nil {
		return 0
	}
	return s.Last.Sub(*s.First)
}

// CountFor returns the number of messages with priority p.
func (s *Summary) CountFor(p message.Priority) int {
	for _, pc := range s.ByPriority {
		if pc.Priority == p {
			return pc.Count
		}
	}
	return 0
}

// top returns the n most frequent values, by count descending then value
// ascending.
func top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for v, c := range counts {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
