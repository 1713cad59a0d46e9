/*
Package notify publishes "something changed" signals so other devices know
to re-pull the synced document.

PURPOSE:
  The signal is deliberately tiny: which part of the state changed plus a
  timestamp. Conflict resolution stays with the pullers (field-wise last
  write wins on the document); the broker only wakes them up. Publishing is
  fire-and-forget from the handlers' point of view - a failed publish is
  logged, never surfaced to the caller.
*/
package notify

import (
	"context"
	"encoding/json"
	"time"
)

// ChangeMessage is the wire payload of one change signal.
type ChangeMessage struct {
	Scope     string   `json:"scope"`            // settings | rules | groceries | fuel
	Fields    []string `json:"fields,omitempty"` // settings fields touched, if known
	Timestamp int64    `json:"timestamp"`        // unix millis
}

func newChangeMessage(scope string, fields []string) ChangeMessage {
	return ChangeMessage{
		Scope:     scope,
		Fields:    fields,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (m ChangeMessage) toJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a change signal.
func ChangeMessageFromJSON(body []byte) (*ChangeMessage, error) {
	var m ChangeMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Notifier is the change-signal publisher the API handlers depend on.
type Notifier interface {
	PublishChange(ctx context.Context, scope string, fields ...string) error
	Close() error
}

// Nop is a Notifier that does nothing, for tests and broker-less setups.
type Nop struct{}

func (Nop) PublishChange(context.Context, string, ...string) error { return nil }
func (Nop) Close() error                                           { return nil }
