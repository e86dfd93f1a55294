package commands

import (
	"errors"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand withdraws a pending order on behalf of its customer.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID, customerID kernel.UUID) (CancelOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		wrapRequired("customer", customerID.Validate()),
	); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{orderID: orderID, customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c CancelOrderCommand) CustomerID() kernel.UUID { return c.customerID }
