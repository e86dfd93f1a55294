package commands

import (
	"context"
	"errors"
	"log/slog"

	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/ports"
)

// CancelOrderCommandHandler cancels a pending order under the same order lock that
// acceptance takes, so a cancel and an accept on one order never both succeed.
// Riders still holding a live offer are told the order is gone.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	fanout     fanout
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		fanout:     newFanout(notifier, nil, logger),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !o.Customer().IsEqual(cmd.CustomerID()) {
		return ErrActorNotParticipant
	}

	if err = o.Cancel(); err != nil {
		if errors.Is(err, order.ErrOrderIsResolved) {
			return ErrAlreadyResolved
		}
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	offers, err := uow.OfferRepository().GetByOrder(ctx, o.ID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, of := range offers {
		if of.IsLive(now) {
			h.fanout.offerClosed(ctx, of, ports.EventOfferCancelled, ReasonOrderCancelled)
		}
	}

	return nil
}
