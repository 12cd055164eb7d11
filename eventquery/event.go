package eventquery

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidPayloadJSON is returned when an event payload is not valid JSON.
var ErrInvalidPayloadJSON = errors.New("payload json is not valid")

// Events is an alias type for a slice of Event.
type Events = []Event

// Event is the record a predicate is evaluated against: a DTO built on
// scalars plus a semi-structured JSON payload, agnostic of how events are
// ingested or stored.
//
// While its properties are exported, it should only be constructed with the
// supplied factory methods:
//   - BuildEvent
//   - BuildEventWithEmptyPayload
type Event struct {
	ID          int64
	Timestamp   time.Time
	Source      string
	PayloadJSON []byte
}

// BuildEvent is a factory method for Event.
//
// It populates the Event with the given scalar input.
// Returns an error if payloadJSON is not valid JSON.
func BuildEvent(id int64, timestamp time.Time, source string, payloadJSON []byte) (Event, error) {
	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return Event{}, ErrInvalidPayloadJSON
	}

	return Event{
		ID:          id,
		Timestamp:   timestamp,
		Source:      source,
		PayloadJSON: payloadJSON,
	}, nil
}

// BuildEventWithEmptyPayload is a factory method for Event.
//
// It populates the Event with the given scalar input and a valid empty JSON
// payload.
func BuildEventWithEmptyPayload(id int64, timestamp time.Time, source string) (Event, error) {
	return BuildEvent(id, timestamp, source, []byte("{}"))
}
