package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrSetRiderAvailabilityCommandIsNotConstructed = errors.New(
	"SetRiderAvailabilityCommand must be created via NewSetRiderAvailabilityCommand constructor",
)

type SetRiderAvailabilityCommand struct { //nolint:recvcheck //using for validation
	riderID   kernel.UUID
	available bool
	guard     guard.ConstructorGuard
}

func NewSetRiderAvailabilityCommand(riderID kernel.UUID, available bool) (SetRiderAvailabilityCommand, error) {
	if err := riderID.Validate(); err != nil {
		return SetRiderAvailabilityCommand{}, err
	}

	return SetRiderAvailabilityCommand{riderID: riderID, available: available, guard: guard.NewConstructorGuard()}, nil
}

func (c SetRiderAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetRiderAvailabilityCommandIsNotConstructed)
}

func (c SetRiderAvailabilityCommand) RiderID() kernel.UUID { return c.riderID }
func (c SetRiderAvailabilityCommand) Available() bool      { return c.available }
