package ports

import (
	"context"

	"mercuri/internal/core/domain/model/kernel"
)

// DispatchQueue schedules an asynchronous dispatch round for an order.
// Enqueue returns once the request is accepted; the dispatch itself runs later.
type DispatchQueue interface {
	Enqueue(ctx context.Context, orderID kernel.UUID) error
}
