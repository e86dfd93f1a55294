package inmemory

import (
	"context"
	"fmt"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/core/ports"
	"mercuri/internal/pkg/errs"
)

type staged[T any] struct {
	state  T
	insert bool
}

// transaction buffers one unit of work's writes and the order locks it holds.
type transaction struct {
	orders        map[kernel.UUID]staged[order.State]
	offers        map[kernel.UUID]staged[offer.State]
	deletedOffers map[kernel.UUID]struct{}
	riders        map[kernel.UUID]staged[rider.State]
	events        []*offer.Event
	held          map[kernel.UUID]struct{}
}

func newTransaction() *transaction {
	return &transaction{
		orders:        make(map[kernel.UUID]staged[order.State]),
		offers:        make(map[kernel.UUID]staged[offer.State]),
		deletedOffers: make(map[kernel.UUID]struct{}),
		riders:        make(map[kernel.UUID]staged[rider.State]),
		held:          make(map[kernel.UUID]struct{}),
	}
}

// UnitOfWork implements ports.UnitOfWork over a Store. Reads see committed state
// overlaid with the unit's own staged writes.
type UnitOfWork struct {
	store *Store
	tx    *transaction
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.tx == nil {
		u.tx = newTransaction()
	}
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}

	tx := u.tx
	u.tx = nil
	defer u.release(tx)

	return u.store.apply(tx)
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}

	tx := u.tx
	u.tx = nil
	u.release(tx)
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) OfferRepository() ports.OfferRepository {
	return &offerRepository{uow: u}
}

func (u *UnitOfWork) OfferEventRepository() ports.OfferEventRepository {
	return &offerEventRepository{uow: u}
}

func (u *UnitOfWork) RiderRepository() ports.RiderRepository {
	return &riderRepository{uow: u}
}

func (u *UnitOfWork) release(tx *transaction) {
	for id := range tx.held {
		u.store.locks.release(id)
	}
}

func (u *UnitOfWork) active() (*transaction, error) {
	if u.tx == nil {
		return nil, ErrNoTransaction
	}
	return u.tx, nil
}

// lockOrder takes the order's lock once per transaction.
func (u *UnitOfWork) lockOrder(ctx context.Context, tx *transaction, id kernel.UUID) error {
	if _, ok := tx.held[id]; ok {
		return nil
	}
	if err := u.store.locks.acquire(ctx, id); err != nil {
		return err
	}
	tx.held[id] = struct{}{}
	return nil
}

func (u *UnitOfWork) order(id kernel.UUID) (order.State, bool) {
	if u.tx != nil {
		if st, ok := u.tx.orders[id]; ok {
			return st.state, true
		}
	}

	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	st, ok := u.store.orders[id]
	return st, ok
}

func (u *UnitOfWork) offer(id kernel.UUID) (offer.State, bool) {
	if u.tx != nil {
		if _, deleted := u.tx.deletedOffers[id]; deleted {
			return offer.State{}, false
		}
		if st, ok := u.tx.offers[id]; ok {
			return st.state, true
		}
	}

	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	st, ok := u.store.offers[id]
	return st, ok
}

// offers returns every visible offer matching keep.
func (u *UnitOfWork) offers(keep func(offer.State) bool) []offer.State {
	visible := make(map[kernel.UUID]offer.State)

	u.store.mu.RLock()
	for id, st := range u.store.offers {
		visible[id] = st
	}
	u.store.mu.RUnlock()

	if u.tx != nil {
		for id, st := range u.tx.offers {
			visible[id] = st.state
		}
		for id := range u.tx.deletedOffers {
			delete(visible, id)
		}
	}

	result := make([]offer.State, 0)
	for _, st := range visible {
		if keep(st) {
			result = append(result, st)
		}
	}
	return result
}

func (u *UnitOfWork) rider(id kernel.UUID) (rider.State, bool) {
	if u.tx != nil {
		if st, ok := u.tx.riders[id]; ok {
			return st.state, true
		}
	}

	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	st, ok := u.store.riders[id]
	return st, ok
}

func (u *UnitOfWork) events(keep func(*offer.Event) bool) []*offer.Event {
	u.store.mu.RLock()
	all := make([]*offer.Event, 0, len(u.store.events))
	all = append(all, u.store.events...)
	u.store.mu.RUnlock()

	if u.tx != nil {
		all = append(all, u.tx.events...)
	}

	result := make([]*offer.Event, 0)
	for _, e := range all {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

func alreadyExists(kind string, id kernel.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrAlreadyExists)
}

func conflict(kind string, id kernel.UUID) error {
	return errs.NewTransientError("commit "+kind+" "+id.String(), ErrWriteConflict)
}
