package queries

import (
	"encoding/json"
	"errors"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrGetOfferHistoryQueryIsNotConstructed = errors.New(
	"GetOfferHistoryQuery must be created via NewGetOfferHistoryQuery constructor",
)

// GetOfferHistoryQuery reads an offer's ledger. History outlives the offer row itself.
type GetOfferHistoryQuery struct {
	offerID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOfferHistoryQuery(offerID kernel.UUID) (GetOfferHistoryQuery, error) {
	if err := offerID.Validate(); err != nil {
		return GetOfferHistoryQuery{}, err
	}

	return GetOfferHistoryQuery{
		offerID: offerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOfferHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOfferHistoryQueryIsNotConstructed)
}

func (q GetOfferHistoryQuery) OfferID() kernel.UUID {
	return q.offerID
}

// OfferEventView is one ledger entry. Payload is the stored JSON, untouched.
type OfferEventView struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	RiderID   kernel.UUID
	Kind      string
	Payload   json.RawMessage
	CreatedAt time.Time
}
