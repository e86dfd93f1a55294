package offer

import (
	"errors"
	"fmt"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
	"mercuri/internal/pkg/guard"
)

const (
	// TTL is how long a freshly dispatched offer stays open.
	TTL = 50 * time.Second

	// CounterTTL is how long an offer stays open after a counter.
	CounterTTL = 30 * time.Second
)

var (
	ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer constructor")

	// ErrOfferIsExpired is returned by transitions on an offer past its deadline.
	ErrOfferIsExpired = errors.New("offer is expired")

	// ErrOfferIsAccepted is returned by transitions on an offer that already won.
	ErrOfferIsAccepted = errors.New("offer is already accepted")
)

// Offer is a proposed fare for an order sent to exactly one rider.
// The rider is fixed when the offer is created; counters only change the fare and deadline.
type Offer struct {
	id        kernel.UUID
	orderID   kernel.UUID
	riderID   kernel.UUID
	fare      kernel.Fare
	isCounter bool
	accepted  bool
	createdAt time.Time
	expiresAt time.Time
	guard     guard.ConstructorGuard
}

// NewOffer creates an open, non-counter offer expiring TTL after now.
func NewOffer(id, orderID, riderID kernel.UUID, fare kernel.Fare, now time.Time) (*Offer, error) {
	o := &Offer{
		createdAt: now,
		expiresAt: now.Add(TTL),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIDs(id, orderID, riderID),
		o.setFare(fare),
		validateTime("createdAt", now),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the persisted shape of an offer.
type State struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	RiderID   kernel.UUID
	Fare      kernel.Fare
	IsCounter bool
	Accepted  bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

func RestoreOffer(s State) (*Offer, error) {
	o := &Offer{
		isCounter: s.IsCounter,
		accepted:  s.Accepted,
		createdAt: s.CreatedAt,
		expiresAt: s.ExpiresAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIDs(s.ID, s.OrderID, s.RiderID),
		o.setFare(s.Fare),
		validateTime("expiresAt", s.ExpiresAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Offer) Validate() error {
	if o == nil {
		return ErrOfferIsNotConstructed
	}
	return o.guard.Validate(ErrOfferIsNotConstructed)
}

func (o *Offer) ID() kernel.UUID      { return o.id }
func (o *Offer) OrderID() kernel.UUID { return o.orderID }
func (o *Offer) RiderID() kernel.UUID { return o.riderID }
func (o *Offer) Fare() kernel.Fare    { return o.fare }
func (o *Offer) IsCounter() bool      { return o.isCounter }
func (o *Offer) IsAccepted() bool     { return o.accepted }
func (o *Offer) CreatedAt() time.Time { return o.createdAt }
func (o *Offer) ExpiresAt() time.Time { return o.expiresAt }

// IsExpired reports whether now is strictly past the deadline.
func (o *Offer) IsExpired(now time.Time) bool {
	return now.After(o.expiresAt)
}

// IsLive reports whether the offer can still be accepted, countered or declined.
func (o *Offer) IsLive(now time.Time) bool {
	return !o.accepted && !o.IsExpired(now)
}

// Counter replaces the fare and reopens the offer for CounterTTL from now.
func (o *Offer) Counter(fare kernel.Fare, now time.Time) error {
	if err := o.checkOpen(now); err != nil {
		return err
	}
	if err := o.setFare(fare); err != nil {
		return err
	}

	o.isCounter = true
	o.expiresAt = now.Add(CounterTTL)
	return nil
}

// MarkAccepted flags the offer as the order's winner.
func (o *Offer) MarkAccepted(now time.Time) error {
	if err := o.checkOpen(now); err != nil {
		return err
	}

	o.accepted = true
	return nil
}

func (o *Offer) checkOpen(now time.Time) error {
	if o.accepted {
		return ErrOfferIsAccepted
	}
	if o.IsExpired(now) {
		return fmt.Errorf("%w: deadline %s", ErrOfferIsExpired, o.expiresAt.Format(time.RFC3339))
	}
	return nil
}

func (o *Offer) setIDs(id, orderID, riderID kernel.UUID) error {
	if err := errors.Join(
		id.Validate(),
		wrapRequired("order", orderID.Validate()),
		wrapRequired("rider", riderID.Validate()),
	); err != nil {
		return err
	}

	o.id = id
	o.orderID = orderID
	o.riderID = riderID
	return nil
}

func (o *Offer) setFare(fare kernel.Fare) error {
	if err := fare.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("fare", err)
	}
	o.fare = fare
	return nil
}

func validateTime(name string, t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func wrapRequired(name string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(name, err)
}
