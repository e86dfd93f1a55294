// Package queries contains the read side of the marketplace. Handlers read straight
// from Postgres with raw SQL and return flat read models; they never take locks.
package queries

import (
	"errors"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery fetches one order with the offers still stored for it.
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderView is the read model for an order.
type OrderView struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	RiderID       *kernel.UUID
	Status        string
	Pickup        kernel.Location
	Dropoff       kernel.Location
	ItemCategory  string
	ItemType      string
	SuggestedCost kernel.Fare
	CreatedAt     time.Time
	AcceptedAt    *time.Time
	ExpiresAt     time.Time
}

// OfferView is the read model for an offer.
type OfferView struct {
	ID        kernel.UUID
	RiderID   kernel.UUID
	Fare      kernel.Fare
	IsCounter bool
	Accepted  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

type GetOrderQueryResponse struct {
	Order  OrderView
	Offers []OfferView
}
