package services

import (
	"errors"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
)

var (
	// ErrNoCandidatesFound is returned when no rider qualifies for an order.
	ErrNoCandidatesFound = errors.New("no candidate riders found")

	// ErrOrderNotPending is returned when dispatch is asked for an order that can no longer be won.
	ErrOrderNotPending = errors.New("order is not pending")
)

// Dispatch is the outcome of one dispatch round: an offer and its sent event per candidate.
type Dispatch struct {
	Offers []*offer.Offer
	Events []*offer.Event
}

// OrderDispatcher turns a pending order and a rider pool into offers.
// It performs no I/O; persisting and announcing the offers is the caller's job.
//
// Example usage:
//
//	dispatcher := NewOrderDispatcher(FlatFarePolicy{})
//	d, err := dispatcher.Dispatch(o, riders, NewRiderSet(declinedIDs...), now)
//	if errors.Is(err, ErrNoCandidatesFound) {
//	    // nobody nearby; the order will expire on its own
//	}
type OrderDispatcher struct {
	policy FarePolicy
}

func NewOrderDispatcher(policy FarePolicy) OrderDispatcher {
	if policy == nil {
		policy = FlatFarePolicy{}
	}
	return OrderDispatcher{policy: policy}
}

// Dispatch selects up to DispatchCandidateLimit riders within DispatchRadiusKm of the pickup
// and builds one non-counter offer for each, all sharing the effective fare and a TTL deadline.
func (d OrderDispatcher) Dispatch(
	o *order.Order,
	pool []*rider.Rider,
	excluded RiderSet,
	now time.Time,
) (Dispatch, error) {
	if err := o.Validate(); err != nil {
		return Dispatch{}, err
	}

	if !o.IsPending() {
		return Dispatch{}, ErrOrderNotPending
	}

	fare, err := EffectiveFare(o, d.policy)
	if err != nil {
		return Dispatch{}, err
	}

	candidates, err := FindCandidates(o.Pickup(), pool, excluded, DispatchRadiusKm, DispatchCandidateLimit)
	if err != nil {
		return Dispatch{}, err
	}

	if len(candidates) == 0 {
		return Dispatch{}, ErrNoCandidatesFound
	}

	result := Dispatch{
		Offers: make([]*offer.Offer, 0, len(candidates)),
		Events: make([]*offer.Event, 0, len(candidates)),
	}

	for _, r := range candidates {
		of, err := offer.NewOffer(kernel.NewUUID(), o.ID(), r.ID(), fare, now)
		if err != nil {
			return Dispatch{}, err
		}

		sent, err := offer.NewEvent(of, offer.SentPayload{RiderID: r.ID()}, now)
		if err != nil {
			return Dispatch{}, err
		}

		result.Offers = append(result.Offers, of)
		result.Events = append(result.Events, sent)
	}

	return result, nil
}
