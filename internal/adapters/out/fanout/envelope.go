// Package fanout delivers engine notifications to client-facing transports.
// Every transport publishes the same JSON envelope.
package fanout

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/ports"
)

// Envelope is the wire form of a notification.
type Envelope struct {
	ID         string          `json:"id"`
	Type       ports.EventType `json:"type"`
	Recipient  string          `json:"recipient"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    any             `json:"payload"`
}

func newEnvelope(n ports.Notification, at time.Time) Envelope {
	return Envelope{
		ID:         kernel.NewUUID().String(),
		Type:       n.Type,
		Recipient:  n.Recipient.String(),
		OccurredAt: at.UTC(),
		Payload:    n.Payload,
	}
}

func encode(n ports.Notification, at time.Time) ([]byte, error) {
	if err := n.Recipient.Validate(); err != nil {
		return nil, fmt.Errorf("notification recipient: %w", err)
	}
	if n.Type == "" {
		return nil, errors.New("notification type is required")
	}

	b, err := json.Marshal(newEnvelope(n, at))
	if err != nil {
		return nil, fmt.Errorf("encode %s notification: %w", n.Type, err)
	}
	return b, nil
}
