package offer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
)

// Kind names an entry in the offer ledger.
type Kind string

const (
	KindSent      Kind = "sent"
	KindCountered Kind = "countered"
	KindAccepted  Kind = "accepted"
	KindDeclined  Kind = "declined"
	KindExpired   Kind = "expired"
)

// Role identifies which side of the marketplace acted.
type Role string

const (
	RoleRider    Role = "rider"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRider, RoleCustomer:
		return Role(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not rider or customer", s))
	}
}

// Reasons recorded on expired events.
const (
	ReasonDeadlinePassed = "deadline_passed"
	ReasonSwept          = "swept"
)

var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent constructor")

// Payload is the closed set of per-kind event bodies. Kind is derived from the
// concrete type, so an event can never carry a payload of the wrong shape.
type Payload interface {
	Kind() Kind
	payload()
}

type SentPayload struct {
	RiderID kernel.UUID `json:"rider_id"`
}

type CounteredPayload struct {
	Fare kernel.Fare `json:"fare"`
	By   Role        `json:"by"`
}

type AcceptedPayload struct {
	RiderID kernel.UUID `json:"rider_id"`
	By      Role        `json:"by"`
}

type DeclinedPayload struct {
	RiderID kernel.UUID `json:"rider_id"`
}

type ExpiredPayload struct {
	Reason string `json:"reason"`
}

func (SentPayload) Kind() Kind      { return KindSent }
func (CounteredPayload) Kind() Kind { return KindCountered }
func (AcceptedPayload) Kind() Kind  { return KindAccepted }
func (DeclinedPayload) Kind() Kind  { return KindDeclined }
func (ExpiredPayload) Kind() Kind   { return KindExpired }

func (SentPayload) payload()      {}
func (CounteredPayload) payload() {}
func (AcceptedPayload) payload()  {}
func (DeclinedPayload) payload()  {}
func (ExpiredPayload) payload()   {}

// Event is one append-only entry of an offer's history. It keeps order and rider
// snapshots so it stays meaningful after the offer row itself is swept.
type Event struct {
	id        kernel.UUID
	offerID   kernel.UUID
	orderID   kernel.UUID
	riderID   kernel.UUID
	payload   Payload
	createdAt time.Time
}

// NewEvent records payload against o at the given instant.
func NewEvent(o *Offer, p Payload, at time.Time) (*Event, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	return RestoreEvent(kernel.NewUUID(), o.ID(), o.OrderID(), o.RiderID(), p, at)
}

func RestoreEvent(id, offerID, orderID, riderID kernel.UUID, p Payload, at time.Time) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		wrapRequired("offer", offerID.Validate()),
		wrapRequired("order", orderID.Validate()),
		wrapRequired("rider", riderID.Validate()),
		validateTime("createdAt", at),
	); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errs.NewValueIsRequiredError("payload")
	}

	return &Event{
		id:        id,
		offerID:   offerID,
		orderID:   orderID,
		riderID:   riderID,
		payload:   p,
		createdAt: at,
	}, nil
}

func (e *Event) Validate() error {
	if e == nil || e.payload == nil {
		return ErrEventIsNotConstructed
	}
	return nil
}

func (e *Event) ID() kernel.UUID      { return e.id }
func (e *Event) OfferID() kernel.UUID { return e.offerID }
func (e *Event) OrderID() kernel.UUID { return e.orderID }
func (e *Event) RiderID() kernel.UUID { return e.riderID }
func (e *Event) Kind() Kind           { return e.payload.Kind() }
func (e *Event) Payload() Payload     { return e.payload }
func (e *Event) CreatedAt() time.Time { return e.createdAt }

// MarshalPayload encodes p for storage next to its kind.
func MarshalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, errs.NewValueIsRequiredError("payload")
	}
	return json.Marshal(p)
}

// UnmarshalPayload decodes a stored payload into the concrete type for kind.
func UnmarshalPayload(kind Kind, data []byte) (Payload, error) {
	var p Payload
	switch kind {
	case KindSent:
		var v SentPayload
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
		}
		p = v
	case KindCountered:
		var v CounteredPayload
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
		}
		p = v
	case KindAccepted:
		var v AcceptedPayload
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
		}
		p = v
	case KindDeclined:
		var v DeclinedPayload
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
		}
		p = v
	case KindExpired:
		var v ExpiredPayload
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
		}
		p = v
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not an offer event kind", kind))
	}
	return p, nil
}
