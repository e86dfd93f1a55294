// Package orderrepo persists order aggregates with gorm.
package orderrepo

import (
	"time"

	"mercuri/internal/adapters/out/postgres/offerrepo"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table row. The (status, expires_at) index serves the reaper sweep.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	RiderID       *uuid.UUID      `gorm:"type:uuid;index"`
	Status        string          `gorm:"type:varchar(16);not null;index:idx_orders_status_expires_at,priority:1"`
	Pickup        LocationDTO     `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff       LocationDTO     `gorm:"embedded;embeddedPrefix:dropoff_"`
	ItemCategory  string          `gorm:"type:varchar(64);not null"`
	ItemType      string          `gorm:"type:varchar(64);not null"`
	SuggestedCost decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	AcceptedAt    *time.Time
	DeliveredAt   *time.Time
	ExpiresAt     time.Time `gorm:"not null;index:idx_orders_status_expires_at,priority:2"`

	// Schema-only relations: deleting an order removes its offers and ledger.
	Offers []offerrepo.OfferDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Events []offerrepo.OfferEventDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO is an embedded WGS84 point.
type LocationDTO struct {
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

func fromDomain(o *order.Order) OrderDTO {
	var riderID *uuid.UUID
	if id := o.Rider(); id != nil {
		raw := id.Bytes()
		riderID = &raw
	}

	return OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    o.Customer().Bytes(),
		RiderID:       riderID,
		Status:        o.Status().String(),
		Pickup:        locationDTO(o.Pickup()),
		Dropoff:       locationDTO(o.Dropoff()),
		ItemCategory:  o.ItemCategory(),
		ItemType:      o.ItemType(),
		SuggestedCost: o.SuggestedCost().Amount(),
		CreatedAt:     o.CreatedAt().UTC(),
		AcceptedAt:    utc(o.AcceptedAt()),
		DeliveredAt:   utc(o.DeliveredAt()),
		ExpiresAt:     o.ExpiresAt().UTC(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var riderID *kernel.UUID
	if dto.RiderID != nil {
		rID, riderErr := kernel.UUIDFromBytes((*dto.RiderID)[:])
		if riderErr != nil {
			return nil, riderErr
		}
		riderID = &rID
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewLocation(dto.Pickup.Latitude, dto.Pickup.Longitude)
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewLocation(dto.Dropoff.Latitude, dto.Dropoff.Longitude)
	if err != nil {
		return nil, err
	}

	cost, err := kernel.NewFare(dto.SuggestedCost)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:            id,
		CustomerID:    customerID,
		RiderID:       riderID,
		Status:        status,
		Pickup:        pickup,
		Dropoff:       dropoff,
		ItemCategory:  dto.ItemCategory,
		ItemType:      dto.ItemType,
		SuggestedCost: cost,
		CreatedAt:     dto.CreatedAt,
		AcceptedAt:    dto.AcceptedAt,
		DeliveredAt:   dto.DeliveredAt,
		ExpiresAt:     dto.ExpiresAt,
	})
}

func locationDTO(l kernel.Location) LocationDTO {
	return LocationDTO{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
