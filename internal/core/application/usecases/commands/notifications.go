package commands

import (
	"context"
	"log/slog"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/ports"
)

// Fanout payloads. They describe offers and parties, never coordinates.
type (
	NewOfferPayload struct {
		ID              kernel.UUID   `json:"id"`
		OrderID         kernel.UUID   `json:"order_id"`
		Customer        ports.Contact `json:"customer"`
		Rider           ports.Contact `json:"rider"`
		Fare            kernel.Fare   `json:"fare"`
		PackageCategory string        `json:"package_category"`
		PackageType     string        `json:"package_type"`
		CreatedAt       time.Time     `json:"created_at"`
		ExpiresAt       time.Time     `json:"expires_at"`
	}

	OfferAcceptedPayload struct {
		ID         kernel.UUID   `json:"id"`
		OrderID    kernel.UUID   `json:"order_id"`
		Fare       kernel.Fare   `json:"fare"`
		AcceptedBy offer.Role    `json:"accepted_by"`
		Rider      ports.Contact `json:"rider"`
		Customer   ports.Contact `json:"customer"`
	}

	OfferCounteredPayload struct {
		ID        kernel.UUID `json:"id"`
		OrderID   kernel.UUID `json:"order_id"`
		Price     kernel.Fare `json:"price"`
		By        offer.Role  `json:"by"`
		ExpiresAt time.Time   `json:"expires_at"`
	}

	OfferDeclinedPayload struct {
		ID      kernel.UUID `json:"id"`
		OrderID kernel.UUID `json:"order_id"`
		RiderID kernel.UUID `json:"rider_id"`
	}

	OfferClosedPayload struct {
		ID      kernel.UUID `json:"id"`
		OrderID kernel.UUID `json:"order_id"`
		Reason  string      `json:"reason"`
	}

	OrderExpiredPayload struct {
		OrderID   kernel.UUID `json:"order_id"`
		ExpiresAt time.Time   `json:"expires_at"`
	}
)

// Reasons carried by offer_cancelled.
const (
	ReasonOrderAccepted  = "order_accepted"
	ReasonOrderCancelled = "order_cancelled"
)

// fanout publishes after commit. Failures are logged and swallowed: the store,
// not the notification, is the source of truth.
type fanout struct {
	notifier ports.Notifier
	contacts ports.ContactBook
	logger   *slog.Logger
}

func newFanout(notifier ports.Notifier, contacts ports.ContactBook, logger *slog.Logger) fanout {
	if logger == nil {
		logger = slog.Default()
	}
	return fanout{notifier: notifier, contacts: contacts, logger: logger.With("component", "fanout")}
}

func (f fanout) publish(ctx context.Context, recipient kernel.UUID, eventType ports.EventType, payload any) {
	if f.notifier == nil {
		return
	}

	err := f.notifier.Publish(ctx, ports.Notification{
		Recipient: recipient,
		Type:      eventType,
		Payload:   payload,
	})
	if err != nil {
		f.logger.WarnContext(ctx, "notification not delivered",
			"event", string(eventType),
			"recipient", recipient.String(),
			"error", err,
		)
	}
}

// contact degrades to an ID-only summary when the contact book cannot help.
func (f fanout) contact(ctx context.Context, id kernel.UUID) ports.Contact {
	if f.contacts == nil {
		return ports.Contact{ID: id}
	}

	c, err := f.contacts.Lookup(ctx, id)
	if err != nil {
		f.logger.WarnContext(ctx, "contact lookup failed", "user", id.String(), "error", err)
		return ports.Contact{ID: id}
	}
	c.ID = id
	return c
}

func (f fanout) newOffer(ctx context.Context, o *order.Order, of *offer.Offer, customer ports.Contact) {
	f.publish(ctx, of.RiderID(), ports.EventNewOffer, NewOfferPayload{
		ID:              of.ID(),
		OrderID:         o.ID(),
		Customer:        customer,
		Rider:           f.contact(ctx, of.RiderID()),
		Fare:            of.Fare(),
		PackageCategory: o.ItemCategory(),
		PackageType:     o.ItemType(),
		CreatedAt:       of.CreatedAt(),
		ExpiresAt:       of.ExpiresAt(),
	})
}

func (f fanout) offerClosed(ctx context.Context, of *offer.Offer, eventType ports.EventType, reason string) {
	f.publish(ctx, of.RiderID(), eventType, OfferClosedPayload{
		ID:      of.ID(),
		OrderID: of.OrderID(),
		Reason:  reason,
	})
}
