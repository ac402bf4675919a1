// Package message defines the structured P2000 message produced by the parser.
package message

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNoCapcodes is returned by New when no capcode is given.
// A paging message always addresses at least one receiver.
var ErrNoCapcodes = errors.New("message has no capcodes")

// Fields carries the values used to construct a Message.
// Nil pointers mean the field was not found in the source line.
type Fields struct {
	Timestamp    *time.Time
	Protocol     string
	Address      string
	Frequency    string
	Capcodes     []string
	MessageType  *string
	Priority     Priority
	IncidentCode *string
	Location     *string
	Detail       string
	RawPayload   string

	// Source and LineNum identify the originating line.
	Source  string
	LineNum int
}

// Message is a parsed P2000 message. It is immutable once created.
type Message struct {
	timestamp    time.Time
	hasTimestamp bool
	protocol     string
	address      string
	frequency    string
	capcodes     []string
	messageType  *string
	priority     Priority
	incidentCode *string
	location     *string
	detail       string
	rawPayload   string
	source       string
	lineNum      int
}

// New builds a Message from f. The capcode slice and optional values are
// copied so later changes to f do not leak into the message.
func New(f Fields) (Message, error) {
	if len(f.Capcodes) == 0 {
		return Message{}, ErrNoCapcodes
	}

	m := Message{
		protocol:     f.Protocol,
		address:      f.Address,
		frequency:    f.Frequency,
		capcodes:     append([]string(nil), f.Capcodes...),
		messageType:  copyString(f.MessageType),
		priority:     f.Priority,
		incidentCode: copyString(f.IncidentCode),
		location:     copyString(f.Location),
		detail:       f.Detail,
		rawPayload:   f.RawPayload,
		source:       f.Source,
		lineNum:      f.LineNum,
	}
	if f.Timestamp != nil {
		m.timestamp = *f.Timestamp
		m.hasTimestamp = true
	}
	if !m.priority.Valid() {
		m.priority = PriorityUnknown
	}
	return m, nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func optional(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// Timestamp returns the broadcast time, if it could be parsed.
func (m Message) Timestamp() (time.Time, bool) { return m.timestamp, m.hasTimestamp }

// Protocol returns the protocol tag, normally "FLEX".
func (m Message) Protocol() string { return m.protocol }

// Address returns the raw radio address token.
func (m Message) Address() string { return m.address }

// Frequency returns the frequency as written in the source.
func (m Message) Frequency() string { return m.frequency }

// Capcodes returns a copy of the addressed capcodes in source order.
func (m Message) Capcodes() []string { return append([]string(nil), m.capcodes...) }

// MessageType returns the message type tag (e.g. "ALN"), if present.
func (m Message) MessageType() (string, bool) { return optional(m.messageType) }

// Priority returns the extracted priority, PriorityUnknown when none was found.
func (m Message) Priority() Priority { return m.priority }

// IncidentCode returns the incident or unit designator, if present.
func (m Message) IncidentCode() (string, bool) { return optional(m.incidentCode) }

// Location returns the extracted location, if present.
func (m Message) Location() (string, bool) { return optional(m.location) }

// Detail returns the payload text left after structured fields were removed.
func (m Message) Detail() string { return m.detail }

// RawPayload returns the complete free-text payload.
func (m Message) RawPayload() string { return m.rawPayload }

// Source returns the name of the input the message was read from.
func (m Message) Source() string { return m.source }

// LineNum returns the 1-based line number in Source.
func (m Message) LineNum() int { return m.lineNum }

type jsonMessage struct {
	Timestamp    *time.Time `json:"timestamp"`
	Protocol     string     `json:"protocol"`
	Address      string     `json:"address"`
	Frequency    string     `json:"frequency"`
	Capcodes     []string   `json:"capcodes"`
	MessageType  *string    `json:"message_type"`
	Priority     Priority   `json:"priority"`
	IncidentCode *string    `json:"incident_code"`
	Location     *string    `json:"location"`
	Detail       string     `json:"detail"`
	RawPayload   string     `json:"raw_payload"`
	Source       string     `json:"source,omitempty"`
	LineNum      int        `json:"line,omitempty"`
}

// MarshalJSON encodes absent optional fields as null.
func (m Message) MarshalJSON() ([]byte, error) {
	out := jsonMessage{
		Protocol:     m.protocol,
		Address:      m.address,
		Frequency:    m.frequency,
		Capcodes:     m.capcodes,
		MessageType:  m.messageType,
		Priority:     m.priority,
		IncidentCode: m.incidentCode,
		Location:     m.location,
		Detail:       m.detail,
		RawPayload:   m.rawPayload,
		Source:       m.source,
		LineNum:      m.lineNum,
	}
	if m.hasTimestamp {
		ts := m.timestamp
		out.Timestamp = &ts
	}
	return json.Marshal(out)
}
