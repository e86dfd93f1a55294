package commands

import (
	"errors"

	"mercuri/internal/pkg/guard"
)

var ErrReapExpiredCommandIsNotConstructed = errors.New(
	"ReapExpiredCommand must be created via NewReapExpiredCommand constructor",
)

// ReapExpiredCommand triggers one pass of both expiry sweeps.
type ReapExpiredCommand struct {
	guard guard.ConstructorGuard
}

func NewReapExpiredCommand() ReapExpiredCommand {
	return ReapExpiredCommand{guard: guard.NewConstructorGuard()}
}

func (c *ReapExpiredCommand) Validate() error {
	return c.guard.Validate(ErrReapExpiredCommandIsNotConstructed)
}
