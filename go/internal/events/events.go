package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope for everything pushed to clients.
type Event struct {
	ID        string          `json:"id"`        // Event UUID
	SessionID string          `json:"session_id,omitempty"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Type names an event.
type Type string

const (
	TypeStepChanged  Type = "StepChanged"
	TypeTimerTick    Type = "TimerTick"
	TypeTimerExpired Type = "TimerExpired"
	TypeWakeLock     Type = "WakeLock"
)

// Sink receives events. Publish must not block for long; it is called from
// timer goroutines.
type Sink interface {
	Publish(event *Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(event *Event)

// Publish calls f.
func (f SinkFunc) Publish(event *Event) { f(event) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(*Event) {})

// New builds an event with a fresh id and the payload encoded as JSON.
func New(typ Type, at time.Time, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      typ,
		Timestamp: at,
		Data:      data,
	}, nil
}

// ParsePayload decodes event data into the payload struct for its type.
func ParsePayload(event *Event) (interface{}, error) {
	switch event.Type {
	case TypeStepChanged:
		var payload StepChangedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case TypeTimerTick:
		var payload TimerTickPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case TypeTimerExpired:
		var payload TimerExpiredPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case TypeWakeLock:
		var payload WakeLockPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, fmt.Errorf("unknown event type %q", event.Type)
	}
}
