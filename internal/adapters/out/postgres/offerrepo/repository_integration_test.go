package offerrepo_test

import (
	"context"
	"testing"
	"time"

	"mercuri/internal/adapters/out/postgres/offerrepo"
	"mercuri/internal/adapters/out/postgres/orderrepo"
	"mercuri/internal/adapters/out/postgres/pgtest"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type OfferRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg     *pgtest.Database
	offers *offerrepo.GormOfferRepository
	events *offerrepo.GormOfferEventRepository
	order  *order.Order
}

func TestOfferRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OfferRepositoryIntegrationTestSuite))
}

func (s *OfferRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	s.Require().NoError(err)
	s.pg = pg
}

func (s *OfferRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())
	s.offers = offerrepo.NewGormOfferRepository(s.pg.DB)
	s.events = offerrepo.NewGormOfferEventRepository(s.pg.DB)

	pickup, err := kernel.NewLocation(6.70, 6.70)
	s.Require().NoError(err)
	fare, err := kernel.NewFare(decimal.NewFromInt(1500))
	s.Require().NoError(err)
	s.order, err = order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), pickup, pickup, "food", "box", fare, t0, time.Minute)
	s.Require().NoError(err)
	s.Require().NoError(orderrepo.NewGormOrderRepository(s.pg.DB).Add(s.T().Context(), s.order))
}

func (s *OfferRepositoryIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Stop(context.Background()))
}

func (s *OfferRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := s.T().Context()
	of := s.newOffer(t0)

	s.Require().NoError(s.offers.Add(ctx, of))

	got, err := s.offers.Get(ctx, of.ID())
	s.Require().NoError(err)
	s.True(of.RiderID().IsEqual(got.RiderID()))
	s.True(of.OrderID().IsEqual(got.OrderID()))
	s.Equal("1500.00", got.Fare().String())
	s.False(got.IsCounter())
	s.False(got.IsAccepted())
	s.True(t0.Add(offer.TTL).Equal(got.ExpiresAt()))
}

func (s *OfferRepositoryIntegrationTestSuite) TestAdd_RequiresOrder() {
	of, err := offer.NewOffer(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), s.order.SuggestedCost(), t0)
	s.Require().NoError(err)

	s.Error(s.offers.Add(s.T().Context(), of))
}

func (s *OfferRepositoryIntegrationTestSuite) TestUpdate_Counter() {
	ctx := s.T().Context()
	of := s.newOffer(t0)
	s.Require().NoError(s.offers.Add(ctx, of))

	fare, err := kernel.ParseFare("1800")
	s.Require().NoError(err)
	s.Require().NoError(of.Counter(fare, t0.Add(5*time.Second)))
	s.Require().NoError(s.offers.Update(ctx, of))

	got, err := s.offers.Get(ctx, of.ID())
	s.Require().NoError(err)
	s.Equal("1800.00", got.Fare().String())
	s.True(got.IsCounter())
	s.True(t0.Add(5 * time.Second).Add(offer.CounterTTL).Equal(got.ExpiresAt()))
}

func (s *OfferRepositoryIntegrationTestSuite) TestUpdate_NeverRewritesAcceptedOffer() {
	ctx := s.T().Context()
	of := s.newOffer(t0)
	s.Require().NoError(s.offers.Add(ctx, of))

	stale, err := s.offers.Get(ctx, of.ID())
	s.Require().NoError(err)

	s.Require().NoError(of.MarkAccepted(t0.Add(time.Second)))
	s.Require().NoError(s.offers.Update(ctx, of))

	fare, err := kernel.ParseFare("900")
	s.Require().NoError(err)
	s.Require().NoError(stale.Counter(fare, t0.Add(2*time.Second)))

	s.ErrorIs(s.offers.Update(ctx, stale), errs.ErrObjectNotFound)

	got, err := s.offers.Get(ctx, of.ID())
	s.Require().NoError(err)
	s.True(got.IsAccepted())
	s.Equal("1500.00", got.Fare().String())
}

func (s *OfferRepositoryIntegrationTestSuite) TestGetByOrder_OldestFirst() {
	ctx := s.T().Context()
	later := s.newOffer(t0.Add(time.Second))
	earlier := s.newOffer(t0)
	s.Require().NoError(s.offers.Add(ctx, later))
	s.Require().NoError(s.offers.Add(ctx, earlier))

	got, err := s.offers.GetByOrder(ctx, s.order.ID())
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(earlier.ID().IsEqual(got[0].ID()))
	s.True(later.ID().IsEqual(got[1].ID()))
}

func (s *OfferRepositoryIntegrationTestSuite) TestDeleteExpiredUnaccepted() {
	ctx := s.T().Context()
	stale := s.newOffer(t0)
	won := s.newOffer(t0)
	s.Require().NoError(won.MarkAccepted(t0.Add(time.Second)))
	live := s.newOffer(t0.Add(time.Minute))
	for _, of := range []*offer.Offer{stale, won, live} {
		s.Require().NoError(s.offers.Add(ctx, of))
	}

	deleted, err := s.offers.DeleteExpiredUnaccepted(ctx, t0.Add(offer.TTL+time.Second))
	s.Require().NoError(err)
	s.Require().Len(deleted, 1)
	s.True(stale.ID().IsEqual(deleted[0].ID()))
	s.True(stale.RiderID().IsEqual(deleted[0].RiderID()))

	remaining, err := s.offers.GetByOrder(ctx, s.order.ID())
	s.Require().NoError(err)
	s.Len(remaining, 2)

	again, err := s.offers.DeleteExpiredUnaccepted(ctx, t0.Add(offer.TTL+time.Second))
	s.Require().NoError(err)
	s.Empty(again)
}

func (s *OfferRepositoryIntegrationTestSuite) TestLedger_SurvivesOfferDeletion() {
	ctx := s.T().Context()
	of := s.newOffer(t0)
	s.Require().NoError(s.offers.Add(ctx, of))

	fare, err := kernel.ParseFare("1750.5")
	s.Require().NoError(err)
	for i, p := range []offer.Payload{
		offer.SentPayload{RiderID: of.RiderID()},
		offer.CounteredPayload{Fare: fare, By: offer.RoleRider},
		offer.DeclinedPayload{RiderID: of.RiderID()},
	} {
		ev, err := offer.NewEvent(of, p, t0.Add(time.Duration(i)*time.Second))
		s.Require().NoError(err)
		s.Require().NoError(s.events.Append(ctx, ev))
	}

	_, err = s.offers.DeleteExpiredUnaccepted(ctx, t0.Add(time.Hour))
	s.Require().NoError(err)

	history, err := s.events.GetByOffer(ctx, of.ID())
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(offer.KindSent, history[0].Kind())
	s.Equal(offer.KindCountered, history[1].Kind())
	s.Equal(offer.KindDeclined, history[2].Kind())

	countered, ok := history[1].Payload().(offer.CounteredPayload)
	s.Require().True(ok)
	s.Equal("1750.50", countered.Fare.String())
	s.Equal(offer.RoleRider, countered.By)

	declined, err := s.events.GetDeclinedRiders(ctx, s.order.ID())
	s.Require().NoError(err)
	s.Require().Len(declined, 1)
	s.True(of.RiderID().IsEqual(declined[0]))
}

func (s *OfferRepositoryIntegrationTestSuite) TestGetDeclinedRiders_Distinct() {
	ctx := s.T().Context()
	first := s.newOffer(t0)
	second := s.newOffer(t0)
	for _, of := range []*offer.Offer{first, second} {
		s.Require().NoError(s.offers.Add(ctx, of))
	}

	for _, of := range []*offer.Offer{first, first, second} {
		ev, err := offer.NewEvent(of, offer.DeclinedPayload{RiderID: of.RiderID()}, t0)
		s.Require().NoError(err)
		s.Require().NoError(s.events.Append(ctx, ev))
	}
	sent, err := offer.NewEvent(first, offer.SentPayload{RiderID: first.RiderID()}, t0)
	s.Require().NoError(err)
	s.Require().NoError(s.events.Append(ctx, sent))

	declined, err := s.events.GetDeclinedRiders(ctx, s.order.ID())
	s.Require().NoError(err)
	s.Len(declined, 2)
}

func (s *OfferRepositoryIntegrationTestSuite) newOffer(at time.Time) *offer.Offer {
	of, err := offer.NewOffer(kernel.NewUUID(), s.order.ID(), kernel.NewUUID(), s.order.SuggestedCost(), at)
	s.Require().NoError(err)
	return of
}
