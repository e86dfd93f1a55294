package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
	"mercuri/internal/pkg/guard"
)

var ErrCounterOfferCommandIsNotConstructed = errors.New(
	"CounterOfferCommand must be created via NewCounterOfferCommand constructor",
)

// CounterOfferCommand proposes a new fare on an existing offer. Either party may counter.
type CounterOfferCommand struct { //nolint:recvcheck //using for validation
	offerID kernel.UUID
	fare    kernel.Fare
	actor   Actor
	guard   guard.ConstructorGuard
}

func NewCounterOfferCommand(offerID kernel.UUID, fare kernel.Fare, actor Actor) (CounterOfferCommand, error) {
	if err := errors.Join(
		offerID.Validate(),
		wrapRequired("fare", fare.Validate()),
		actor.Validate(),
	); err != nil {
		return CounterOfferCommand{}, err
	}

	if fare.IsZero() {
		return CounterOfferCommand{}, errs.NewValueIsInvalidError("fare")
	}

	return CounterOfferCommand{offerID: offerID, fare: fare, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c CounterOfferCommand) Validate() error {
	return c.guard.Validate(ErrCounterOfferCommandIsNotConstructed)
}

func (c CounterOfferCommand) OfferID() kernel.UUID { return c.offerID }
func (c CounterOfferCommand) Fare() kernel.Fare    { return c.fare }
func (c CounterOfferCommand) Actor() Actor         { return c.actor }
