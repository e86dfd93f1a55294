package commands

import (
	"context"

	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/core/ports"
)

// RegisterRiderCommandHandler creates the directory entry: available, idle from now,
// and invisible to dispatch until the first location update.
type RegisterRiderCommandHandler struct {
	uowFactory RiderUoWFactory
	clock      ports.Clock
}

func NewRegisterRiderCommandHandler(uowFactory RiderUoWFactory, clock ports.Clock) RegisterRiderCommandHandler {
	return RegisterRiderCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h RegisterRiderCommandHandler) Handle(ctx context.Context, cmd RegisterRiderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	r, err := rider.NewRider(cmd.RiderID(), h.clock.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RiderRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
