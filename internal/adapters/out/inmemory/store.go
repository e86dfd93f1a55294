// Package inmemory is a process-local transactional store for single-node deployments
// and tests. It keeps the same contract as the Postgres adapter: writes staged in a unit
// of work become visible together on Commit, and GetForUpdate holds an exclusive
// per-order lock until the unit of work ends.
package inmemory

import (
	"errors"
	"sync"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/core/ports"
)

var (
	// ErrNoTransaction is returned by Commit, Rollback and every write made outside Begin.
	ErrNoTransaction = errors.New("no active transaction")

	// ErrAlreadyExists is returned when adding an aggregate whose ID is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrWriteConflict is wrapped in an errs.TransientError when a commit finds that
	// a row it conditionally changed was claimed by another transaction first.
	ErrWriteConflict = errors.New("write conflict")
)

// Store holds committed state. Aggregates are kept as value snapshots so no caller
// ever shares a pointer with the store.
type Store struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]order.State
	offers map[kernel.UUID]offer.State
	events []*offer.Event
	riders map[kernel.UUID]rider.State

	locks *lockTable
}

func NewStore() *Store {
	return &Store{
		orders: make(map[kernel.UUID]order.State),
		offers: make(map[kernel.UUID]offer.State),
		riders: make(map[kernel.UUID]rider.State),
		locks:  newLockTable(),
	}
}

// Create implements ports.UnitOfWorkFactory.
func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

// apply validates the staged writes against committed state and makes them visible.
// Nothing is applied when validation fails.
func (s *Store) apply(tx *transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(tx); err != nil {
		return err
	}

	for id, st := range tx.orders {
		s.orders[id] = st.state
	}
	for id := range tx.deletedOffers {
		delete(s.offers, id)
	}
	for id, st := range tx.offers {
		s.offers[id] = st.state
	}
	for id, st := range tx.riders {
		s.riders[id] = st.state
	}
	s.events = append(s.events, tx.events...)

	return nil
}

func (s *Store) check(tx *transaction) error {
	for id, st := range tx.orders {
		if _, exists := s.orders[id]; st.insert && exists {
			return alreadyExists("order", id)
		}
	}

	for id, st := range tx.riders {
		if _, exists := s.riders[id]; st.insert && exists {
			return alreadyExists("rider", id)
		}
	}

	for id, st := range tx.offers {
		current, exists := s.offers[id]
		if st.insert {
			if exists {
				return alreadyExists("offer", id)
			}
			continue
		}
		if !exists || current.Accepted {
			return conflict("offer", id)
		}
	}

	for id := range tx.deletedOffers {
		if current, exists := s.offers[id]; !exists || current.Accepted {
			return conflict("offer", id)
		}
	}

	return nil
}
