package commands

import (
	"context"
	"errors"
	"log/slog"

	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/ports"
	"mercuri/internal/pkg/errs"
)

// CounterOfferCommandHandler rewrites an offer's fare and reopens it for offer.CounterTTL.
// It does not lock the order: the accepted flag is only ever written under the order
// lock, and the offer store refuses to update an offer once it is accepted.
type CounterOfferCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	fanout     fanout
}

func NewCounterOfferCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) CounterOfferCommandHandler {
	return CounterOfferCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		fanout:     newFanout(notifier, nil, logger),
	}
}

// Handle returns the countered offer.
func (h CounterOfferCommandHandler) Handle(ctx context.Context, cmd CounterOfferCommand) (*offer.Offer, error) {
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

	offerRepo := uow.OfferRepository()
	eventRepo := uow.OfferEventRepository()

	of, err := offerRepo.Get(ctx, cmd.OfferID())
	if err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, of.OrderID())
	if err != nil {
		return nil, err
	}

	if !cmd.Actor().canActOn(of, o.Customer()) {
		return nil, ErrActorNotParticipant
	}

	if of.IsExpired(now) {
		return nil, recordExpired(ctx, uow, eventRepo, of, now)
	}

	if of.IsAccepted() || !o.IsPending() {
		return nil, ErrAlreadyResolved
	}

	if err = of.Counter(cmd.Fare(), now); err != nil {
		return nil, err
	}

	countered, err := offer.NewEvent(of, offer.CounteredPayload{Fare: cmd.Fare(), By: cmd.Actor().Role()}, now)
	if err != nil {
		return nil, err
	}

	if err = offerRepo.Update(ctx, of); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, h.explainLostUpdate(ctx, offerRepo, of)
		}
		return nil, err
	}

	if err = eventRepo.Append(ctx, countered); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	recipient := o.Customer()
	if cmd.Actor().Role() == offer.RoleCustomer {
		recipient = of.RiderID()
	}
	h.fanout.publish(ctx, recipient, ports.EventOfferCountered, OfferCounteredPayload{
		ID:        of.ID(),
		OrderID:   of.OrderID(),
		Price:     of.Fare(),
		By:        cmd.Actor().Role(),
		ExpiresAt: of.ExpiresAt(),
	})

	return of, nil
}

// explainLostUpdate tells apart the two ways an offer update can match nothing:
// the offer won in the meantime, or the reaper removed it.
func (h CounterOfferCommandHandler) explainLostUpdate(
	ctx context.Context,
	offers ports.OfferRepository,
	of *offer.Offer,
) error {
	current, err := offers.Get(ctx, of.ID())
	if err == nil && current.IsAccepted() {
		return ErrAlreadyResolved
	}
	return ErrOfferExpired
}
