package offerrepo

import (
	"context"

	"mercuri/internal/adapters/out/postgres/pgerr"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOfferEventRepository implements ports.OfferEventRepository. Rows are only ever inserted.
type GormOfferEventRepository struct {
	db *gorm.DB
}

func NewGormOfferEventRepository(db *gorm.DB) *GormOfferEventRepository {
	return &GormOfferEventRepository{db: db}
}

func (r *GormOfferEventRepository) Append(ctx context.Context, event *offer.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto, err := eventFromDomain(event)
	if err != nil {
		return err
	}

	return pgerr.Classify("append offer event", r.db.WithContext(ctx).Create(&dto).Error)
}

func (r *GormOfferEventRepository) GetByOffer(ctx context.Context, offerID kernel.UUID) ([]*offer.Event, error) {
	if err := offerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OfferEventDTO
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify("get offer events", err)
	}

	events := make([]*offer.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := eventToDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}

// GetDeclinedRiders lists riders with a declined entry on the order, deduplicated.
func (r *GormOfferEventRepository) GetDeclinedRiders(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OfferEventDTO{}).
		Distinct("rider_id").
		Where("order_id = ? AND kind = ?", orderID.Bytes(), string(offer.KindDeclined)).
		Order("rider_id").
		Pluck("rider_id", &raw).Error
	if err != nil {
		return nil, pgerr.Classify("get declined riders", err)
	}

	riders := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		riderID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		riders = append(riders, riderID)
	}

	return riders, nil
}
