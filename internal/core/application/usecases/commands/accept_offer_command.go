package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

// AcceptOfferCommand covers both entry points: a rider taking the standing offer
// and a customer accepting a counter. The actor's role selects which.
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	offerID kernel.UUID
	actor   Actor
	guard   guard.ConstructorGuard
}

func NewAcceptOfferCommand(offerID kernel.UUID, actor Actor) (AcceptOfferCommand, error) {
	if err := errors.Join(offerID.Validate(), actor.Validate()); err != nil {
		return AcceptOfferCommand{}, err
	}

	return AcceptOfferCommand{offerID: offerID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

func (c AcceptOfferCommand) OfferID() kernel.UUID {
	return c.offerID
}

func (c AcceptOfferCommand) Actor() Actor {
	return c.actor
}
