package queries

import (
	"errors"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrGetAvailableRidersQueryIsNotConstructed = errors.New(
	"GetAvailableRidersQuery must be created via NewGetAvailableRidersQuery constructor",
)

// GetAvailableRidersQuery lists riders that discovery can currently see.
type GetAvailableRidersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAvailableRidersQuery() GetAvailableRidersQuery {
	return GetAvailableRidersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAvailableRidersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableRidersQueryIsNotConstructed)
}

type RiderView struct {
	ID                kernel.UUID
	Location          kernel.Location
	IdleSince         *time.Time
	LocationUpdatedAt *time.Time
}
