package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrRegisterRiderCommandIsNotConstructed = errors.New(
	"RegisterRiderCommand must be created via NewRegisterRiderCommand constructor",
)

// RegisterRiderCommand adds a rider-role account to the rider directory.
type RegisterRiderCommand struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewRegisterRiderCommand(riderID kernel.UUID) (RegisterRiderCommand, error) {
	if err := riderID.Validate(); err != nil {
		return RegisterRiderCommand{}, err
	}

	return RegisterRiderCommand{riderID: riderID, guard: guard.NewConstructorGuard()}, nil
}

func (c RegisterRiderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRiderCommandIsNotConstructed)
}

func (c RegisterRiderCommand) RiderID() kernel.UUID {
	return c.riderID
}
