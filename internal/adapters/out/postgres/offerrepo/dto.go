// Package offerrepo persists offers and the append-only offer ledger.
package offerrepo

import (
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferDTO is the offers table row. Rows are deleted by the reaper once expired and unaccepted.
type OfferDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_offers_order_created,priority:1"`
	RiderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fare      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsCounter bool            `gorm:"not null;default:false"`
	Accepted  bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"not null;index:idx_offers_order_created,priority:2"`
	ExpiresAt time.Time       `gorm:"not null;index"`
}

func (OfferDTO) TableName() string {
	return "offers"
}

// OfferEventDTO is one ledger entry. OfferID carries no foreign key so history survives
// the reaper; OrderID cascades from orders.
type OfferEventDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OfferID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index:idx_offer_events_order_kind,priority:1"`
	RiderID   uuid.UUID `gorm:"type:uuid;not null"`
	Kind      string    `gorm:"type:varchar(16);not null;index:idx_offer_events_order_kind,priority:2"`
	Payload   string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (OfferEventDTO) TableName() string {
	return "offer_events"
}

func fromDomain(o *offer.Offer) OfferDTO {
	return OfferDTO{
		ID:        o.ID().Bytes(),
		OrderID:   o.OrderID().Bytes(),
		RiderID:   o.RiderID().Bytes(),
		Fare:      o.Fare().Amount(),
		IsCounter: o.IsCounter(),
		Accepted:  o.IsAccepted(),
		CreatedAt: o.CreatedAt().UTC(),
		ExpiresAt: o.ExpiresAt().UTC(),
	}
}

func toDomain(dto OfferDTO) (*offer.Offer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	riderID, err := kernel.UUIDFromBytes(dto.RiderID[:])
	if err != nil {
		return nil, err
	}

	fare, err := kernel.NewFare(dto.Fare)
	if err != nil {
		return nil, err
	}

	return offer.RestoreOffer(offer.State{
		ID:        id,
		OrderID:   orderID,
		RiderID:   riderID,
		Fare:      fare,
		IsCounter: dto.IsCounter,
		Accepted:  dto.Accepted,
		CreatedAt: dto.CreatedAt,
		ExpiresAt: dto.ExpiresAt,
	})
}

func toDomainAll(dtos []OfferDTO) ([]*offer.Offer, error) {
	offers := make([]*offer.Offer, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

func eventFromDomain(e *offer.Event) (OfferEventDTO, error) {
	payload, err := offer.MarshalPayload(e.Payload())
	if err != nil {
		return OfferEventDTO{}, err
	}

	return OfferEventDTO{
		ID:        e.ID().Bytes(),
		OfferID:   e.OfferID().Bytes(),
		OrderID:   e.OrderID().Bytes(),
		RiderID:   e.RiderID().Bytes(),
		Kind:      string(e.Kind()),
		Payload:   string(payload),
		CreatedAt: e.CreatedAt().UTC(),
	}, nil
}

func eventToDomain(dto OfferEventDTO) (*offer.Event, error) {
	payload, err := offer.UnmarshalPayload(offer.Kind(dto.Kind), []byte(dto.Payload))
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, 4)
	for _, raw := range []uuid.UUID{dto.ID, dto.OfferID, dto.OrderID, dto.RiderID} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return offer.RestoreEvent(ids[0], ids[1], ids[2], ids[3], payload, dto.CreatedAt)
}
