package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrRedispatchOrderCommandIsNotConstructed = errors.New(
	"RedispatchOrderCommand must be created via NewRedispatchOrderCommand constructor",
)

// RedispatchOrderCommand asks for a fresh dispatch round, typically after the
// customer's offers expired unanswered.
type RedispatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewRedispatchOrderCommand(orderID, customerID kernel.UUID) (RedispatchOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		wrapRequired("customer", customerID.Validate()),
	); err != nil {
		return RedispatchOrderCommand{}, err
	}

	return RedispatchOrderCommand{orderID: orderID, customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (c RedispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrRedispatchOrderCommandIsNotConstructed)
}

func (c RedispatchOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c RedispatchOrderCommand) CustomerID() kernel.UUID { return c.customerID }
