package commands

import (
	"context"

	"mercuri/internal/core/ports"
)

// SetRiderAvailabilityCommandHandler toggles whether a rider can be discovered.
type SetRiderAvailabilityCommandHandler struct {
	uowFactory RiderUoWFactory
	clock      ports.Clock
}

func NewSetRiderAvailabilityCommandHandler(uowFactory RiderUoWFactory, clock ports.Clock) SetRiderAvailabilityCommandHandler {
	return SetRiderAvailabilityCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h SetRiderAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetRiderAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()

	r, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}

	r.SetAvailability(cmd.Available(), h.clock.Now())

	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
