package commands

import (
	"context"
	"log/slog"

	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/ports"
)

// DeclineOfferCommandHandler records a decline in the offer ledger. Neither the offer
// nor the order changes; the declined event alone keeps the rider out of later
// dispatch rounds for this order.
type DeclineOfferCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	fanout     fanout
}

func NewDeclineOfferCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) DeclineOfferCommandHandler {
	return DeclineOfferCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		fanout:     newFanout(notifier, nil, logger),
	}
}

func (h DeclineOfferCommandHandler) Handle(ctx context.Context, cmd DeclineOfferCommand) error {
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

	eventRepo := uow.OfferEventRepository()

	of, err := uow.OfferRepository().Get(ctx, cmd.OfferID())
	if err != nil {
		return err
	}

	if !of.RiderID().IsEqual(cmd.RiderID()) {
		return ErrActorNotParticipant
	}

	if of.IsExpired(now) {
		return recordExpired(ctx, uow, eventRepo, of, now)
	}

	if of.IsAccepted() {
		return ErrAlreadyResolved
	}

	declined, err := offer.NewEvent(of, offer.DeclinedPayload{RiderID: cmd.RiderID()}, now)
	if err != nil {
		return err
	}

	if err = eventRepo.Append(ctx, declined); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, of.OrderID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.fanout.publish(ctx, o.Customer(), ports.EventOfferDeclined, OfferDeclinedPayload{
		ID:      of.ID(),
		OrderID: of.OrderID(),
		RiderID: cmd.RiderID(),
	})

	return nil
}
