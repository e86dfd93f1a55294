package commands

import (
	"errors"
	"strings"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
	"mercuri/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand is a customer's delivery request.
//
// Example:
//
//	pickup, _ := kernel.NewLocation(6.70, 6.70)
//	dropoff, _ := kernel.NewLocation(6.75, 6.72)
//	cost, _ := kernel.ParseFare("1500")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, pickup, dropoff, "parcel", "small", cost)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customerID    kernel.UUID
	pickup        kernel.Location
	dropoff       kernel.Location
	itemCategory  string
	itemType      string
	suggestedCost kernel.Fare

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	pickup kernel.Location,
	dropoff kernel.Location,
	itemCategory string,
	itemType string,
	suggestedCost kernel.Fare,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		itemType: strings.TrimSpace(itemType),
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, customerID),
		cmd.setRoute(pickup, dropoff),
		cmd.setItemCategory(itemCategory),
		cmd.setSuggestedCost(suggestedCost),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID       { return c.orderID }
func (c CreateOrderCommand) CustomerID() kernel.UUID    { return c.customerID }
func (c CreateOrderCommand) Pickup() kernel.Location    { return c.pickup }
func (c CreateOrderCommand) Dropoff() kernel.Location   { return c.dropoff }
func (c CreateOrderCommand) ItemCategory() string       { return c.itemCategory }
func (c CreateOrderCommand) ItemType() string           { return c.itemType }
func (c CreateOrderCommand) SuggestedCost() kernel.Fare { return c.suggestedCost }

func (c *CreateOrderCommand) setIDs(orderID, customerID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}

	c.orderID = orderID
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRoute(pickup, dropoff kernel.Location) error {
	if err := errors.Join(
		wrapRequired("pickup", pickup.Validate()),
		wrapRequired("dropoff", dropoff.Validate()),
	); err != nil {
		return err
	}

	c.pickup = pickup
	c.dropoff = dropoff
	return nil
}

func (c *CreateOrderCommand) setItemCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return errs.NewValueIsRequiredError("itemCategory")
	}

	c.itemCategory = category
	return nil
}

func (c *CreateOrderCommand) setSuggestedCost(cost kernel.Fare) error {
	if err := cost.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("suggestedCost", err)
	}

	c.suggestedCost = cost
	return nil
}

func wrapRequired(name string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(name, err)
}
