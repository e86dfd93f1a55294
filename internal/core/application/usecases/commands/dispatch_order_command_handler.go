package commands

import (
	"context"
	"log/slog"

	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/services"
	"mercuri/internal/core/ports"
)

// DispatchOrderCommandHandler offers a pending order to the riders nearest its pickup point.
//
// Riders who declined this order before, and riders who already hold a live offer for it,
// are left out. Offers and their sent events are committed together; new_offer
// notifications go out only after the commit.
//
// The handler takes no order lock. An accept racing with a dispatch is still decided
// under the order lock, so an offer created for an order that was just won can never win.
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	dispatcher services.OrderDispatcher
	clock      ports.Clock
	fanout     fanout
}

func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	dispatcher services.OrderDispatcher,
	clock ports.Clock,
	notifier ports.Notifier,
	contacts ports.ContactBook,
	logger *slog.Logger,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		clock:      clock,
		fanout:     newFanout(notifier, contacts, logger),
	}
}

// Handle returns the offers it created. ErrOrderNotPending and ErrNoCandidatesFound are
// final outcomes for this round, not failures worth retrying.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) ([]*offer.Offer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	offerRepo := uow.OfferRepository()
	eventRepo := uow.OfferEventRepository()
	riderRepo := uow.RiderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if !o.IsPending() || o.IsExpired(now) {
		return nil, ErrOrderNotPending
	}

	declined, err := eventRepo.GetDeclinedRiders(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	excluded := services.NewRiderSet(declined...)

	existing, err := offerRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	for _, of := range existing {
		if of.IsLive(now) {
			excluded.Add(of.RiderID())
		}
	}

	pool, err := riderRepo.GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	dispatch, err := h.dispatcher.Dispatch(o, pool, excluded, now)
	if err != nil {
		return nil, err
	}

	for i, of := range dispatch.Offers {
		if err = offerRepo.Add(ctx, of); err != nil {
			return nil, err
		}
		if err = eventRepo.Append(ctx, dispatch.Events[i]); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	customer := h.fanout.contact(ctx, o.Customer())
	for _, of := range dispatch.Offers {
		h.fanout.newOffer(ctx, o, of, customer)
	}

	return dispatch.Offers, nil
}
