package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrDeclineOfferCommandIsNotConstructed = errors.New(
	"DeclineOfferCommand must be created via NewDeclineOfferCommand constructor",
)

// DeclineOfferCommand is a rider turning an offer down.
type DeclineOfferCommand struct { //nolint:recvcheck //using for validation
	offerID kernel.UUID
	riderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewDeclineOfferCommand(offerID, riderID kernel.UUID) (DeclineOfferCommand, error) {
	if err := errors.Join(
		offerID.Validate(),
		wrapRequired("rider", riderID.Validate()),
	); err != nil {
		return DeclineOfferCommand{}, err
	}

	return DeclineOfferCommand{offerID: offerID, riderID: riderID, guard: guard.NewConstructorGuard()}, nil
}

func (c DeclineOfferCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOfferCommandIsNotConstructed)
}

func (c DeclineOfferCommand) OfferID() kernel.UUID { return c.offerID }
func (c DeclineOfferCommand) RiderID() kernel.UUID { return c.riderID }
