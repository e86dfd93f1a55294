package ports

import (
	"context"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/rider"
)

// RiderRepository is the rider directory's persistence contract.
type RiderRepository interface {
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Update overwrites the stored rider state.
	Update(ctx context.Context, aggregate *rider.Rider) error

	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// GetAllAvailable is a snapshot of available riders with known coordinates.
	GetAllAvailable(ctx context.Context) ([]*rider.Rider, error)
}
