package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsResolved is returned by every transition attempted on an order that has
	// already left Pending or already carries a rider.
	ErrOrderIsResolved = errors.New("order is already resolved")
)

// Order is a customer's request for pickup-to-dropoff delivery. It is the aggregate
// that owns the exclusivity invariant: at most one rider ever wins an order.
//
// Order follows these invariants:
//   - A rider is assigned if and only if the status is Accepted
//   - Once Accepted, Cancelled or Expired, the status never changes again
//   - expiresAt is fixed at creation; the order expires when now is past it
//   - The suggested cost is a non-negative fare rounded to two decimals
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID

	// riderID is set only by Accept.
	riderID *kernel.UUID

	status Status

	pickup  kernel.Location
	dropoff kernel.Location

	itemCategory string
	itemType     string

	suggestedCost kernel.Fare

	createdAt   time.Time
	acceptedAt  *time.Time
	deliveredAt *time.Time
	expiresAt   time.Time

	isConstructed bool
}

// NewOrder creates a Pending order whose deadline is createdAt plus ttl.
//
// Example:
//
//	pickup, _ := kernel.NewLocation(6.70, 6.70)
//	dropoff, _ := kernel.NewLocation(6.75, 6.72)
//	cost, _ := kernel.ParseFare("1500")
//	o, err := NewOrder(kernel.NewUUID(), customerID, pickup, dropoff, "parcel", "small", cost, now, time.Minute)
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	pickup kernel.Location,
	dropoff kernel.Location,
	itemCategory string,
	itemType string,
	suggestedCost kernel.Fare,
	createdAt time.Time,
	ttl time.Duration,
) (*Order, error) {
	order := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomer(customerID),
		order.setPickup(pickup),
		order.setDropoff(dropoff),
		order.setItem(itemCategory, itemType),
		order.setSuggestedCost(suggestedCost),
		order.setDeadline(createdAt, ttl),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// State is the persisted shape of an order, used to rehydrate it from storage.
type State struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	RiderID       *kernel.UUID
	Status        Status
	Pickup        kernel.Location
	Dropoff       kernel.Location
	ItemCategory  string
	ItemType      string
	SuggestedCost kernel.Fare
	CreatedAt     time.Time
	AcceptedAt    *time.Time
	DeliveredAt   *time.Time
	ExpiresAt     time.Time
}

// RestoreOrder reconstructs an order from storage without re-running creation rules,
// but still rejects states that break the rider/status invariant.
func RestoreOrder(s State) (*Order, error) {
	order := &Order{
		isConstructed: true,
		createdAt:     s.CreatedAt,
		expiresAt:     s.ExpiresAt,
		acceptedAt:    s.AcceptedAt,
		deliveredAt:   s.DeliveredAt,
	}

	err := errors.Join(
		order.setID(s.ID),
		order.setCustomer(s.CustomerID),
		order.setPickup(s.Pickup),
		order.setDropoff(s.Dropoff),
		order.setItem(s.ItemCategory, s.ItemType),
		order.setSuggestedCost(s.SuggestedCost),
		s.Status.Validate(),
		s.Status.ValidateCanHaveRider(s.RiderID != nil),
	)
	if err != nil {
		return nil, err
	}

	if s.RiderID != nil {
		if err = s.RiderID.Validate(); err != nil {
			return nil, err
		}
		riderID := *s.RiderID
		order.riderID = &riderID
	}

	order.status = s.Status
	return order, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Customer() kernel.UUID {
	return o.customerID
}

// Rider returns the winning rider, or nil while the order is not Accepted.
func (o *Order) Rider() *kernel.UUID {
	if o.riderID == nil {
		return nil
	}
	id := *o.riderID
	return &id
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Pickup() kernel.Location {
	return o.pickup
}

func (o *Order) Dropoff() kernel.Location {
	return o.dropoff
}

func (o *Order) ItemCategory() string {
	return o.itemCategory
}

func (o *Order) ItemType() string {
	return o.itemType
}

func (o *Order) SuggestedCost() kernel.Fare {
	return o.suggestedCost
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) AcceptedAt() *time.Time {
	return copyTime(o.acceptedAt)
}

func (o *Order) DeliveredAt() *time.Time {
	return copyTime(o.deliveredAt)
}

func (o *Order) ExpiresAt() time.Time {
	return o.expiresAt
}

// IsPending reports whether the order can still be won.
func (o *Order) IsPending() bool {
	return o.status == Pending && o.riderID == nil
}

// IsExpired reports whether now is strictly past the order's deadline.
func (o *Order) IsExpired(now time.Time) bool {
	return now.After(o.expiresAt)
}

// Accept hands the order to riderID. It fails with ErrOrderIsResolved unless the
// order is Pending and has no rider yet.
func (o *Order) Accept(riderID kernel.UUID, now time.Time) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	if o.riderID != nil {
		return fmt.Errorf("%w: rider %s already assigned", ErrOrderIsResolved, o.riderID.String())
	}

	newStatus, err := o.status.Accept()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderIsResolved, err)
	}

	acceptedAt := now
	o.status = newStatus
	o.riderID = &riderID
	o.acceptedAt = &acceptedAt
	return nil
}

// Cancel withdraws a Pending order.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderIsResolved, err)
	}

	o.status = newStatus
	return nil
}

// Expire retires a Pending order whose deadline has passed.
func (o *Order) Expire(now time.Time) error {
	if !o.IsExpired(now) {
		return errs.NewValueIsInvalidErrorWithCause(
			"expiresAt", fmt.Errorf("order %s is not past its deadline", o.id.String()))
	}

	newStatus, err := o.status.Expire()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOrderIsResolved, err)
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setPickup(pickup kernel.Location) error {
	if err := pickup.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pickup", err)
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setDropoff(dropoff kernel.Location) error {
	if err := dropoff.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("dropoff", err)
	}
	o.dropoff = dropoff
	return nil
}

func (o *Order) setItem(category, itemType string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return errs.NewValueIsRequiredError("itemCategory")
	}
	o.itemCategory = category
	o.itemType = strings.TrimSpace(itemType)
	return nil
}

func (o *Order) setSuggestedCost(cost kernel.Fare) error {
	if err := cost.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("suggestedCost", err)
	}
	o.suggestedCost = cost
	return nil
}

func (o *Order) setDeadline(createdAt time.Time, ttl time.Duration) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	if ttl <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl))
	}
	o.createdAt = createdAt
	o.expiresAt = createdAt.Add(ttl)
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
