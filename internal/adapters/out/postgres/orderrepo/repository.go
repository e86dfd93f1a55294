package orderrepo

import (
	"context"
	"errors"
	"time"

	"mercuri/internal/adapters/out/postgres/pgerr"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgerr.Classify("add order", r.db.WithContext(ctx).Create(&dto).Error)
}

// Update writes the columns a transition can change. Everything else is fixed at creation.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"rider_id":     dto.RiderID,
		"status":       dto.Status,
		"accepted_at":  dto.AcceptedAt,
		"delivered_at": dto.DeliveredAt,
	})
	if result.Error != nil {
		return pgerr.Classify("update order", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate takes SELECT ... FOR UPDATE on the order row. It has to run inside the
// unit of work's transaction for the lock to outlive the statement.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// ExpirePending flips every overdue pending order to expired in one statement and returns
// the rows it changed.
func (r *GormOrderRepository) ExpirePending(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Model(&dtos).
		Clauses(clause.Returning{}).
		Where("status = ? AND expires_at < ?", order.Pending.String(), now.UTC()).
		Update("status", order.Expired.String()).Error
	if err != nil {
		return nil, pgerr.Classify("expire pending orders", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Classify("get order", err)
	}

	return toDomain(dto)
}
