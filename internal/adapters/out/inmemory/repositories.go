package inmemory

import (
	"context"
	"slices"
	"strings"
	"time"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/pkg/errs"
)

type orderRepository struct{ uow *UnitOfWork }

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.order(aggregate.ID()); exists {
		return alreadyExists("order", aggregate.ID())
	}

	tx.orders[aggregate.ID()] = staged[order.State]{state: orderState(aggregate), insert: true}
	return nil
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}

	prev, exists := tx.orders[aggregate.ID()]
	if !exists {
		if _, exists = r.uow.order(aggregate.ID()); !exists {
			return errs.NewObjectNotFoundError("order", aggregate.ID())
		}
	}

	tx.orders[aggregate.ID()] = staged[order.State]{state: orderState(aggregate), insert: prev.insert}
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	st, ok := r.uow.order(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return order.RestoreOrder(st)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	tx, err := r.uow.active()
	if err != nil {
		return nil, err
	}
	if err = r.uow.lockOrder(ctx, tx, id); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *orderRepository) ExpirePending(ctx context.Context, now time.Time) ([]*order.Order, error) {
	tx, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	r.uow.store.mu.RLock()
	candidates := make([]kernel.UUID, 0)
	for id, st := range r.uow.store.orders {
		if st.Status == order.Pending && now.After(st.ExpiresAt) {
			candidates = append(candidates, id)
		}
	}
	r.uow.store.mu.RUnlock()

	// A fixed lock order keeps two concurrent sweeps from deadlocking each other.
	slices.SortFunc(candidates, compareIDs)

	expired := make([]*order.Order, 0, len(candidates))
	for _, id := range candidates {
		if err = r.uow.lockOrder(ctx, tx, id); err != nil {
			return nil, err
		}

		o, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if o.Expire(now) != nil {
			// Resolved while this sweep waited for the lock.
			continue
		}

		if err = r.Update(ctx, o); err != nil {
			return nil, err
		}
		expired = append(expired, o)
	}

	return expired, nil
}

type offerRepository struct{ uow *UnitOfWork }

func (r *offerRepository) Add(_ context.Context, aggregate *offer.Offer) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.order(aggregate.OrderID()); !exists {
		return errs.NewObjectNotFoundError("order", aggregate.OrderID())
	}
	if _, exists := r.uow.offer(aggregate.ID()); exists {
		return alreadyExists("offer", aggregate.ID())
	}

	tx.offers[aggregate.ID()] = staged[offer.State]{state: offerState(aggregate), insert: true}
	return nil
}

// Update only matches an offer that still exists and has not been accepted.
func (r *offerRepository) Update(_ context.Context, aggregate *offer.Offer) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}

	current, exists := r.uow.offer(aggregate.ID())
	if !exists || current.Accepted {
		return errs.NewObjectNotFoundError("offer", aggregate.ID())
	}

	prev := tx.offers[aggregate.ID()]
	tx.offers[aggregate.ID()] = staged[offer.State]{state: offerState(aggregate), insert: prev.insert}
	return nil
}

func (r *offerRepository) Get(_ context.Context, id kernel.UUID) (*offer.Offer, error) {
	st, ok := r.uow.offer(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("offer", id)
	}
	return offer.RestoreOffer(st)
}

func (r *offerRepository) GetByOrder(_ context.Context, orderID kernel.UUID) ([]*offer.Offer, error) {
	states := r.uow.offers(func(st offer.State) bool { return st.OrderID.IsEqual(orderID) })
	return restoreOffers(states)
}

func (r *offerRepository) DeleteExpiredUnaccepted(_ context.Context, now time.Time) ([]*offer.Offer, error) {
	tx, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	states := r.uow.offers(func(st offer.State) bool { return !st.Accepted && now.After(st.ExpiresAt) })
	removed, err := restoreOffers(states)
	if err != nil {
		return nil, err
	}

	for _, of := range removed {
		delete(tx.offers, of.ID())
		tx.deletedOffers[of.ID()] = struct{}{}
	}
	return removed, nil
}

type offerEventRepository struct{ uow *UnitOfWork }

func (r *offerEventRepository) Append(_ context.Context, event *offer.Event) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = event.Validate(); err != nil {
		return err
	}

	tx.events = append(tx.events, event)
	return nil
}

func (r *offerEventRepository) GetByOffer(_ context.Context, offerID kernel.UUID) ([]*offer.Event, error) {
	return r.uow.events(func(e *offer.Event) bool { return e.OfferID().IsEqual(offerID) }), nil
}

func (r *offerEventRepository) GetDeclinedRiders(_ context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	declined := r.uow.events(func(e *offer.Event) bool {
		return e.OrderID().IsEqual(orderID) && e.Kind() == offer.KindDeclined
	})

	riders := make([]kernel.UUID, 0, len(declined))
	for _, e := range declined {
		if !slices.ContainsFunc(riders, e.RiderID().IsEqual) {
			riders = append(riders, e.RiderID())
		}
	}
	slices.SortFunc(riders, compareIDs)
	return riders, nil
}

type riderRepository struct{ uow *UnitOfWork }

func (r *riderRepository) Add(_ context.Context, aggregate *rider.Rider) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.rider(aggregate.ID()); exists {
		return alreadyExists("rider", aggregate.ID())
	}

	tx.riders[aggregate.ID()] = staged[rider.State]{state: riderState(aggregate), insert: true}
	return nil
}

func (r *riderRepository) Update(_ context.Context, aggregate *rider.Rider) error {
	tx, err := r.uow.active()
	if err != nil {
		return err
	}
	if err = aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.rider(aggregate.ID()); !exists {
		return errs.NewObjectNotFoundError("rider", aggregate.ID())
	}

	prev := tx.riders[aggregate.ID()]
	tx.riders[aggregate.ID()] = staged[rider.State]{state: riderState(aggregate), insert: prev.insert}
	return nil
}

func (r *riderRepository) Get(_ context.Context, id kernel.UUID) (*rider.Rider, error) {
	st, ok := r.uow.rider(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("rider", id)
	}
	return rider.RestoreRider(st)
}

func (r *riderRepository) GetAllAvailable(_ context.Context) ([]*rider.Rider, error) {
	visible := make(map[kernel.UUID]rider.State)

	r.uow.store.mu.RLock()
	for id, st := range r.uow.store.riders {
		visible[id] = st
	}
	r.uow.store.mu.RUnlock()

	if r.uow.tx != nil {
		for id, st := range r.uow.tx.riders {
			visible[id] = st.state
		}
	}

	result := make([]*rider.Rider, 0)
	for _, st := range visible {
		if !st.Available || st.Location == nil {
			continue
		}
		restored, err := rider.RestoreRider(st)
		if err != nil {
			return nil, err
		}
		result = append(result, restored)
	}

	slices.SortFunc(result, func(a, b *rider.Rider) int { return compareIDs(a.ID(), b.ID()) })
	return result, nil
}

func restoreOffers(states []offer.State) ([]*offer.Offer, error) {
	slices.SortFunc(states, func(a, b offer.State) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})

	result := make([]*offer.Offer, 0, len(states))
	for _, st := range states {
		of, err := offer.RestoreOffer(st)
		if err != nil {
			return nil, err
		}
		result = append(result, of)
	}
	return result, nil
}

func compareIDs(a, b kernel.UUID) int {
	return strings.Compare(a.String(), b.String())
}
