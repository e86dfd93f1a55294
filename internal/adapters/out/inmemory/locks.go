package inmemory

import (
	"context"
	"sync"

	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/pkg/errs"
)

// lockTable hands out one exclusive lock per order. Slots are reference counted and
// dropped once nobody holds or waits for them.
type lockTable struct {
	mu    sync.Mutex
	slots map[kernel.UUID]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{slots: make(map[kernel.UUID]*lockSlot)}
}

// acquire blocks until the order's lock is free or ctx is done.
func (t *lockTable) acquire(ctx context.Context, id kernel.UUID) error {
	t.mu.Lock()
	slot, ok := t.slots[id]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		t.slots[id] = slot
	}
	slot.refs++
	t.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		t.unref(id)
		return errs.NewTransientError("lock order "+id.String(), ctx.Err())
	}
}

func (t *lockTable) release(id kernel.UUID) {
	t.mu.Lock()
	slot := t.slots[id]
	t.mu.Unlock()

	if slot == nil {
		return
	}
	<-slot.ch
	t.unref(id)
}

func (t *lockTable) unref(id kernel.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot := t.slots[id]
	slot.refs--
	if slot.refs == 0 {
		delete(t.slots, id)
	}
}
