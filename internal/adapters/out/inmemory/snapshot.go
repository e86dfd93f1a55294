package inmemory

import (
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
)

func orderState(o *order.Order) order.State {
	return order.State{
		ID:            o.ID(),
		CustomerID:    o.Customer(),
		RiderID:       o.Rider(),
		Status:        o.Status(),
		Pickup:        o.Pickup(),
		Dropoff:       o.Dropoff(),
		ItemCategory:  o.ItemCategory(),
		ItemType:      o.ItemType(),
		SuggestedCost: o.SuggestedCost(),
		CreatedAt:     o.CreatedAt(),
		AcceptedAt:    o.AcceptedAt(),
		DeliveredAt:   o.DeliveredAt(),
		ExpiresAt:     o.ExpiresAt(),
	}
}

func offerState(o *offer.Offer) offer.State {
	return offer.State{
		ID:        o.ID(),
		OrderID:   o.OrderID(),
		RiderID:   o.RiderID(),
		Fare:      o.Fare(),
		IsCounter: o.IsCounter(),
		Accepted:  o.IsAccepted(),
		CreatedAt: o.CreatedAt(),
		ExpiresAt: o.ExpiresAt(),
	}
}

func riderState(r *rider.Rider) rider.State {
	return rider.State{
		ID:                r.ID(),
		Available:         r.IsAvailable(),
		Location:          r.Location(),
		Telemetry:         r.Telemetry(),
		IdleSince:         r.IdleSince(),
		LocationUpdatedAt: r.LocationUpdatedAt(),
	}
}
