package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/pkg/guard"
)

var ErrUpdateRiderLocationCommandIsNotConstructed = errors.New(
	"UpdateRiderLocationCommand must be created via NewUpdateRiderLocationCommand constructor",
)

// UpdateRiderLocationCommand carries one position fix from a rider's device.
type UpdateRiderLocationCommand struct { //nolint:recvcheck //using for validation
	riderID   kernel.UUID
	location  kernel.Location
	telemetry rider.Telemetry
	guard     guard.ConstructorGuard
}

func NewUpdateRiderLocationCommand(
	riderID kernel.UUID,
	location kernel.Location,
	telemetry rider.Telemetry,
) (UpdateRiderLocationCommand, error) {
	if err := errors.Join(
		riderID.Validate(),
		wrapRequired("location", location.Validate()),
	); err != nil {
		return UpdateRiderLocationCommand{}, err
	}

	return UpdateRiderLocationCommand{
		riderID:   riderID,
		location:  location,
		telemetry: telemetry,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateRiderLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRiderLocationCommandIsNotConstructed)
}

func (c UpdateRiderLocationCommand) RiderID() kernel.UUID       { return c.riderID }
func (c UpdateRiderLocationCommand) Location() kernel.Location  { return c.location }
func (c UpdateRiderLocationCommand) Telemetry() rider.Telemetry { return c.telemetry }
