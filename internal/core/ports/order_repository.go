package ports

import (
	"context"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and holds an exclusive lock on it until the
	// enclosing unit of work commits or rolls back. Every other GetForUpdate on the
	// same order blocks in the meantime. Requires an active transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ExpirePending moves every pending order whose deadline is before now to expired
	// and returns the orders it changed. Orders already resolved are never touched.
	ExpirePending(ctx context.Context, now time.Time) ([]*order.Order, error)
}
