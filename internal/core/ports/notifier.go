package ports

import (
	"context"

	"mercuri/internal/core/domain/model/kernel"
)

// EventType is the logical name of a fanout event.
type EventType string

const (
	EventNewOffer       EventType = "new_offer"
	EventOfferAccepted  EventType = "offer_accepted"
	EventOfferCountered EventType = "offer_countered"
	EventOfferDeclined  EventType = "offer_declined"
	EventOfferExpired   EventType = "offer_expired"
	EventOfferCancelled EventType = "offer_cancelled"
	EventOrderExpired   EventType = "order_expired"
)

// Notification is one event addressed to one user. Payload must be JSON-encodable.
type Notification struct {
	Recipient kernel.UUID
	Type      EventType
	Payload   any
}

// Notifier hands events to whatever transport delivers them to clients.
// The engine treats delivery as best-effort.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}
