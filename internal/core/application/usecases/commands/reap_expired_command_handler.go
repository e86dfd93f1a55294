package commands

import (
	"context"
	"log/slog"
	"time"

	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/ports"
)

// ReapResult lists what one pass retired.
type ReapResult struct {
	Offers []*offer.Offer
	Orders []*order.Order
}

// ReapExpiredCommandHandler runs the two expiry sweeps, each in its own transaction:
//   - unaccepted offers past their deadline are deleted, leaving an expired{swept} event behind;
//   - pending orders past their deadline move to expired.
//
// Both sweeps only match rows nobody has claimed, so a pass racing an accept either sees
// the accepted row and skips it or commits first and makes the accept fail.
type ReapExpiredCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	fanout     fanout
}

func NewReapExpiredCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) ReapExpiredCommandHandler {
	return ReapExpiredCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		fanout:     newFanout(notifier, nil, logger),
	}
}

func (h ReapExpiredCommandHandler) Handle(ctx context.Context, cmd ReapExpiredCommand) (ReapResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReapResult{}, err
	}

	now := h.clock.Now()

	offers, err := h.sweepOffers(ctx, now)
	if err != nil {
		return ReapResult{}, err
	}

	for _, of := range offers {
		h.fanout.offerClosed(ctx, of, ports.EventOfferExpired, offer.ReasonSwept)
	}

	orders, err := h.sweepOrders(ctx, now)
	if err != nil {
		return ReapResult{Offers: offers}, err
	}

	for _, o := range orders {
		h.fanout.publish(ctx, o.Customer(), ports.EventOrderExpired, OrderExpiredPayload{
			OrderID:   o.ID(),
			ExpiresAt: o.ExpiresAt(),
		})
	}

	return ReapResult{Offers: offers, Orders: orders}, nil
}

func (h ReapExpiredCommandHandler) sweepOffers(ctx context.Context, now time.Time) ([]*offer.Offer, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	removed, err := uow.OfferRepository().DeleteExpiredUnaccepted(ctx, now)
	if err != nil {
		return nil, err
	}

	events := uow.OfferEventRepository()
	for _, of := range removed {
		ev, evErr := offer.NewEvent(of, offer.ExpiredPayload{Reason: offer.ReasonSwept}, now)
		if evErr != nil {
			return nil, evErr
		}

		if err = events.Append(ctx, ev); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return removed, nil
}

func (h ReapExpiredCommandHandler) sweepOrders(ctx context.Context, now time.Time) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := uow.OrderRepository().ExpirePending(ctx, now)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return expired, nil
}
