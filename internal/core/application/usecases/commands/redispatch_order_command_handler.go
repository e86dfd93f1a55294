package commands

import (
	"context"

	"mercuri/internal/core/ports"
)

// RedispatchOrderCommandHandler checks the order is the customer's and still open,
// then queues another dispatch round. The round itself skips decliners and riders
// whose offer is still live.
type RedispatchOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      ports.DispatchQueue
	clock      ports.Clock
}

func NewRedispatchOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.DispatchQueue,
	clock ports.Clock,
) RedispatchOrderCommandHandler {
	return RedispatchOrderCommandHandler{uowFactory: uowFactory, queue: queue, clock: clock}
}

func (h RedispatchOrderCommandHandler) Handle(ctx context.Context, cmd RedispatchOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !o.Customer().IsEqual(cmd.CustomerID()) {
		return ErrActorNotParticipant
	}

	if !o.IsPending() || o.IsExpired(h.clock.Now()) {
		return ErrAlreadyResolved
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return h.queue.Enqueue(ctx, o.ID())
}
