package order

import (
	"fmt"

	"mercuri/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──┬──> Accepted
//	          ├──> Cancelled
//	          └──> Expired
//
// Accepted, Cancelled and Expired are final: a status never regresses and
// never moves between final states.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending orders are waiting for a rider to win one of their offers.
	Pending

	// Accepted orders have exactly one winning rider.
	Accepted

	// Cancelled orders were withdrawn by their customer while pending.
	Cancelled

	// Expired orders passed their deadline without a winner.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Accepted:  "accepted",
		Cancelled: "cancelled",
		Expired:   "expired",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Accepted:  "accepted",
		Cancelled: "cancelled",
		Expired:   "expired",
	}
}

// ParseStatus maps the persisted lowercase literal back to a Status.
// Only the canonical literals are recognised.
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of Pending, Accepted, Cancelled or Expired.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical lowercase literal used in storage and on the wire.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsFinal reports whether no further transition is possible from s.
func (s Status) IsFinal() bool {
	return s == Accepted || s == Cancelled || s == Expired
}

// ValidateCanHaveRider enforces that a rider is assigned if and only if the status is Accepted.
func (s Status) ValidateCanHaveRider(rider bool) error {
	if rider && s != Accepted {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a rider", s.String()),
		)
	}

	if !rider && s == Accepted {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no rider", s.String()),
		)
	}

	return nil
}

// Accept transitions Pending to Accepted.
func (s Status) Accept() (Status, error) {
	return s.leavePending(Accepted, "accept")
}

// Cancel transitions Pending to Cancelled.
func (s Status) Cancel() (Status, error) {
	return s.leavePending(Cancelled, "cancel")
}

// Expire transitions Pending to Expired.
func (s Status) Expire() (Status, error) {
	return s.leavePending(Expired, "expire")
}

func (s Status) leavePending(to Status, action string) (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to %s", s.String(), action),
		)
	}

	return to, nil
}
