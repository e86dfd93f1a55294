package commands

import (
	"context"

	"mercuri/internal/core/ports"
)

// UpdateRiderLocationCommandHandler overwrites the rider's last fix. Offers already sent
// keep the rider they were created for; acceptance never looks at location.
type UpdateRiderLocationCommandHandler struct {
	uowFactory RiderUoWFactory
	clock      ports.Clock
}

func NewUpdateRiderLocationCommandHandler(uowFactory RiderUoWFactory, clock ports.Clock) UpdateRiderLocationCommandHandler {
	return UpdateRiderLocationCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpdateRiderLocationCommandHandler) Handle(ctx context.Context, cmd UpdateRiderLocationCommand) error {
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

	if err = r.UpdateLocation(cmd.Location(), cmd.Telemetry(), h.clock.Now()); err != nil {
		return err
	}

	if err = riderRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
