package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/ports"
	"mercuri/internal/pkg/errs"
)

// AcceptOfferCommandHandler resolves the winner of an order.
//
// Protocol:
//  1. Read the offer and check the actor. Past its deadline, record an expired event and
//     fail with ErrOfferExpired.
//  2. Lock the parent order for the rest of the transaction. Concurrent accepts on any
//     offer of the same order queue up here.
//  3. Re-read the offer under the lock and re-check its deadline.
//  4. Unless the order is still pending with no rider, fail with ErrAlreadyResolved.
//  5. Assign the offer's rider to the order, flag the offer, append an accepted event, commit.
//  6. After the commit, tell the counterpart and close every other live offer of the order.
//
// The lock is on the order rather than the offer because the order is where the
// one-winner invariant lives; two offers of one order would otherwise both win.
type AcceptOfferCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	fanout     fanout
}

func NewAcceptOfferCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	notifier ports.Notifier,
	contacts ports.ContactBook,
	logger *slog.Logger,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		fanout:     newFanout(notifier, contacts, logger),
	}
}

// Handle returns the accepted order.
func (h AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) (*order.Order, error) {
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
	orderRepo := uow.OrderRepository()

	of, err := offerRepo.Get(ctx, cmd.OfferID())
	if err != nil {
		return nil, err
	}

	// The customer of an order never changes, so participation is checked before locking.
	owner, err := orderRepo.Get(ctx, of.OrderID())
	if err != nil {
		return nil, err
	}

	if !cmd.Actor().canActOn(of, owner.Customer()) {
		return nil, ErrActorNotParticipant
	}

	if of.IsExpired(now) {
		return nil, recordExpired(ctx, uow, eventRepo, of, now)
	}

	o, err := orderRepo.GetForUpdate(ctx, of.OrderID())
	if err != nil {
		return nil, err
	}

	// A counter may have moved the deadline and the reaper may have removed the offer
	// while this call waited for the lock.
	of, err = offerRepo.Get(ctx, cmd.OfferID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrOfferExpired
	}
	if err != nil {
		return nil, err
	}

	if of.IsExpired(now) {
		return nil, recordExpired(ctx, uow, eventRepo, of, now)
	}

	if !o.IsPending() || of.IsAccepted() {
		return nil, ErrAlreadyResolved
	}

	if err = o.Accept(of.RiderID(), now); err != nil {
		if errors.Is(err, order.ErrOrderIsResolved) {
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}

	if err = of.MarkAccepted(now); err != nil {
		return nil, err
	}

	accepted, err := offer.NewEvent(of, offer.AcceptedPayload{RiderID: of.RiderID(), By: cmd.Actor().Role()}, now)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = offerRepo.Update(ctx, of); err != nil {
		return nil, err
	}
	if err = eventRepo.Append(ctx, accepted); err != nil {
		return nil, err
	}

	siblings, err := offerRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.announce(ctx, o, of, cmd.Actor(), siblings, now)
	return o, nil
}

func (h AcceptOfferCommandHandler) announce(
	ctx context.Context,
	o *order.Order,
	winner *offer.Offer,
	actor Actor,
	siblings []*offer.Offer,
	now time.Time,
) {
	payload := OfferAcceptedPayload{
		ID:         winner.ID(),
		OrderID:    o.ID(),
		Fare:       winner.Fare(),
		AcceptedBy: actor.Role(),
		Rider:      h.fanout.contact(ctx, winner.RiderID()),
		Customer:   h.fanout.contact(ctx, o.Customer()),
	}

	counterpart := o.Customer()
	if actor.Role() == offer.RoleCustomer {
		counterpart = winner.RiderID()
	}
	h.fanout.publish(ctx, counterpart, ports.EventOfferAccepted, payload)

	for _, sibling := range siblings {
		if sibling.ID().IsEqual(winner.ID()) || !sibling.IsLive(now) {
			continue
		}
		h.fanout.offerClosed(ctx, sibling, ports.EventOfferCancelled, ReasonOrderAccepted)
	}
}

// recordExpired appends an expired event for the lazy expiry path, commits it on its own
// and reports ErrOfferExpired. Nothing but the event is written.
func recordExpired(ctx context.Context, uow TxManager, events ports.OfferEventRepository, of *offer.Offer, now time.Time) error {
	expired, err := offer.NewEvent(of, offer.ExpiredPayload{Reason: offer.ReasonDeadlinePassed}, now)
	if err != nil {
		return err
	}

	if err = events.Append(ctx, expired); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return ErrOfferExpired
}
