package offerrepo

import (
	"context"
	"errors"
	"time"

	"mercuri/internal/adapters/out/postgres/pgerr"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOfferRepository implements ports.OfferRepository using GORM.
type GormOfferRepository struct {
	db *gorm.DB
}

func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// Add saves a new offer.
func (r *GormOfferRepository) Add(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgerr.Classify("add offer", r.db.WithContext(ctx).Create(&dto).Error)
}

// Update only ever matches an offer that has not won yet. A row that was accepted or swept
// since it was read reports not found, which callers treat as losing the race.
func (r *GormOfferRepository) Update(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("id = ? AND accepted = ?", dto.ID, false).
		Updates(map[string]any{
			"fare":       dto.Fare,
			"is_counter": dto.IsCounter,
			"accepted":   dto.Accepted,
			"expires_at": dto.ExpiresAt,
		})
	if result.Error != nil {
		return pgerr.Classify("update offer", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("offer", aggregate.ID().String())
	}

	return nil
}

// Get retrieves an offer by ID.
func (r *GormOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OfferDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("offer", id.String())
		}
		return nil, pgerr.Classify("get offer", err)
	}

	return toDomain(dto)
}

// GetByOrder returns the order's offers oldest first.
func (r *GormOfferRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*offer.Offer, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OfferDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify("get offers by order", err)
	}

	return toDomainAll(dtos)
}

// DeleteExpiredUnaccepted removes overdue offers that never won, returning the deleted rows.
func (r *GormOfferRepository) DeleteExpiredUnaccepted(ctx context.Context, now time.Time) ([]*offer.Offer, error) {
	var dtos []OfferDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("accepted = ? AND expires_at < ?", false, now.UTC()).
		Delete(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify("delete expired offers", err)
	}

	return toDomainAll(dtos)
}
