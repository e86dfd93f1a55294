package ports

import (
	"context"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
)

// OfferRepository defines the persistence contract for offers.
type OfferRepository interface {
	Add(ctx context.Context, aggregate *offer.Offer) error

	// Update persists fare, counter flag, accepted flag and deadline.
	// An offer that no longer exists yields errs.ErrObjectNotFound.
	Update(ctx context.Context, aggregate *offer.Offer) error

	Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// GetByOrder returns every offer still stored for the order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*offer.Offer, error)

	// DeleteExpiredUnaccepted removes offers with a deadline before now that never
	// won and returns what it removed.
	DeleteExpiredUnaccepted(ctx context.Context, now time.Time) ([]*offer.Offer, error)
}

// OfferEventRepository is the append-only offer ledger.
type OfferEventRepository interface {
	Append(ctx context.Context, event *offer.Event) error

	// GetByOffer returns an offer's history in the order it was recorded.
	GetByOffer(ctx context.Context, offerID kernel.UUID) ([]*offer.Event, error)

	// GetDeclinedRiders returns the riders holding a declined event for the order.
	GetDeclinedRiders(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error)
}
