package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Either everything written
// through its repositories between Begin and Commit becomes visible, or nothing does.
type UnitOfWork interface {
	// Begin starts a transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit makes the transaction's writes durable and releases its locks.
	Commit(ctx context.Context) error

	// Rollback discards the transaction's writes and releases its locks.
	// Calling it after Commit returns an error and has no effect.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	OfferRepository() OfferRepository
	OfferEventRepository() OfferEventRepository
	RiderRepository() RiderRepository
}
