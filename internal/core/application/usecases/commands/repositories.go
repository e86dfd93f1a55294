// Package commands contains the operations that change marketplace state.
// Every command follows the same pattern: a guarded command value validated at
// construction, and a handler that runs it inside a unit of work.
package commands

import (
	"context"

	"mercuri/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	OfferEventRepoFactory interface {
		OfferEventRepository() ports.OfferEventRepository
	}

	RiderRepoFactory interface {
		RiderRepository() ports.RiderRepository
	}

	// OrderUoW is used when a command only writes orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RiderUoW is used by the rider directory commands.
	RiderUoW interface {
		TxManager
		RiderRepoFactory
	}

	RiderUoWFactory interface {
		Create() RiderUoW
	}

	// UoW spans orders, offers, the offer ledger and riders.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... mutate under the lock
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		OfferRepoFactory
		OfferEventRepoFactory
		RiderRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
