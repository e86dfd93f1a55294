package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of an offer operation.
type Actor struct { //nolint:recvcheck //using for validation
	id    kernel.UUID
	role  offer.Role
	guard guard.ConstructorGuard
}

func NewActor(id kernel.UUID, role offer.Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if _, err := offer.ParseRole(string(role)); err != nil {
		return Actor{}, err
	}

	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() offer.Role {
	return a.role
}

// canActOn reports whether the actor is the side of the offer named by its role.
func (a Actor) canActOn(of *offer.Offer, customerID kernel.UUID) bool {
	switch a.role {
	case offer.RoleRider:
		return a.id.IsEqual(of.RiderID())
	case offer.RoleCustomer:
		return a.id.IsEqual(customerID)
	default:
		return false
	}
}
