package commands

import (
	"context"
	"log/slog"
	"time"

	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/ports"
)

// DefaultOrderTTL is how long an order waits for a winner before the reaper expires it.
const DefaultOrderTTL = 60 * time.Second

// CreateOrderCommandHandler stores a new pending order and schedules its dispatch.
// Dispatch runs asynchronously; a failure to enqueue it is logged, and the order is
// left to expire on its own deadline.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      ports.DispatchQueue
	clock      ports.Clock
	ttl        time.Duration
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.DispatchQueue,
	clock ports.Clock,
	ttl time.Duration,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if ttl <= 0 {
		ttl = DefaultOrderTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		clock:      clock,
		ttl:        ttl,
		logger:     logger.With("component", "create_order"),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.Pickup(),
		cmd.Dropoff(),
		cmd.ItemCategory(),
		cmd.ItemType(),
		cmd.SuggestedCost(),
		h.clock.Now(),
		h.ttl,
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.queue.Enqueue(ctx, o.ID()); err != nil {
		h.logger.WarnContext(ctx, "dispatch not scheduled", "order", o.ID().String(), "error", err)
	}

	return nil
}
