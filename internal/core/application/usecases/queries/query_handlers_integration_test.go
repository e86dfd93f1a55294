package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mercuri/internal/adapters/out/postgres"
	"mercuri/internal/adapters/out/postgres/pgtest"
	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/core/ports"
	"mercuri/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type QueryHandlersTestSuite struct {
	suite.Suite
	pg *pgtest.Database
}

func TestQueryHandlers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueryHandlersTestSuite))
}

func (s *QueryHandlersTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	s.Require().NoError(err)
	s.pg = pg
}

func (s *QueryHandlersTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())
}

func (s *QueryHandlersTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Stop(context.Background()))
}

func (s *QueryHandlersTestSuite) TestGetOrder_WithOffers() {
	ctx := s.T().Context()
	o := s.newOrder(t0)
	first := s.newOffer(o, t0)
	second := s.newOffer(o, t0.Add(time.Second))
	s.commit(func(uow ports.UnitOfWork) {
		s.Require().NoError(uow.OrderRepository().Add(ctx, o))
		s.Require().NoError(uow.OfferRepository().Add(ctx, second))
		s.Require().NoError(uow.OfferRepository().Add(ctx, first))
	})

	q, err := queries.NewGetOrderQuery(o.ID())
	s.Require().NoError(err)

	got, err := queries.NewGetOrderQueryHandler(s.pg.DB).Handle(ctx, q)
	s.Require().NoError(err)
	s.True(o.ID().IsEqual(got.Order.ID))
	s.True(o.Customer().IsEqual(got.Order.CustomerID))
	s.Nil(got.Order.RiderID)
	s.Equal("pending", got.Order.Status)
	s.Equal("1500.00", got.Order.SuggestedCost.String())
	s.InDelta(6.70, got.Order.Pickup.Latitude(), 1e-9)
	s.True(t0.Add(time.Minute).Equal(got.Order.ExpiresAt))
	s.Require().Len(got.Offers, 2)
	s.True(first.ID().IsEqual(got.Offers[0].ID))
	s.True(second.ID().IsEqual(got.Offers[1].ID))
}

func (s *QueryHandlersTestSuite) TestGetOrder_Missing() {
	q, err := queries.NewGetOrderQuery(kernel.NewUUID())
	s.Require().NoError(err)

	got, err := queries.NewGetOrderQueryHandler(s.pg.DB).Handle(s.T().Context(), q)

	s.Nil(got)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *QueryHandlersTestSuite) TestGetPendingOrders_OldestFirstAndPendingOnly() {
	ctx := s.T().Context()
	older := s.newOrder(t0)
	newer := s.newOrder(t0.Add(time.Second))
	cancelled := s.newOrder(t0)
	s.Require().NoError(cancelled.Cancel())
	s.commit(func(uow ports.UnitOfWork) {
		for _, o := range []*order.Order{newer, cancelled, older} {
			s.Require().NoError(uow.OrderRepository().Add(ctx, o))
		}
	})

	got, err := queries.NewGetPendingOrdersQueryHandler(s.pg.DB).Handle(ctx, queries.NewGetPendingOrdersQuery())
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(older.ID().IsEqual(got[0].ID))
	s.True(newer.ID().IsEqual(got[1].ID))
}

func (s *QueryHandlersTestSuite) TestGetPendingOrders_Empty() {
	got, err := queries.NewGetPendingOrdersQueryHandler(s.pg.DB).Handle(s.T().Context(), queries.NewGetPendingOrdersQuery())

	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

func (s *QueryHandlersTestSuite) TestGetAvailableRiders_LongestIdleFirst() {
	ctx := s.T().Context()
	recent := s.newRider(t0.Add(time.Minute), 6.70, 6.70)
	longest := s.newRider(t0, 6.71, 6.71)
	offDuty := s.newRider(t0, 6.72, 6.72)
	offDuty.SetAvailability(false, t0)
	unlocated, err := rider.NewRider(kernel.NewUUID(), t0)
	s.Require().NoError(err)
	s.commit(func(uow ports.UnitOfWork) {
		for _, r := range []*rider.Rider{recent, longest, offDuty, unlocated} {
			s.Require().NoError(uow.RiderRepository().Add(ctx, r))
		}
	})

	got, err := queries.NewGetAvailableRidersQueryHandler(s.pg.DB).Handle(ctx, queries.NewGetAvailableRidersQuery())
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(longest.ID().IsEqual(got[0].ID))
	s.True(recent.ID().IsEqual(got[1].ID))
	s.InDelta(6.71, got[0].Location.Latitude(), 1e-9)
}

func (s *QueryHandlersTestSuite) TestGetOfferHistory() {
	ctx := s.T().Context()
	o := s.newOrder(t0)
	of := s.newOffer(o, t0)
	fare, err := kernel.ParseFare("1800")
	s.Require().NoError(err)
	sent, err := offer.NewEvent(of, offer.SentPayload{RiderID: of.RiderID()}, t0)
	s.Require().NoError(err)
	countered, err := offer.NewEvent(of, offer.CounteredPayload{Fare: fare, By: offer.RoleRider}, t0.Add(time.Second))
	s.Require().NoError(err)
	s.commit(func(uow ports.UnitOfWork) {
		s.Require().NoError(uow.OrderRepository().Add(ctx, o))
		s.Require().NoError(uow.OfferRepository().Add(ctx, of))
		s.Require().NoError(uow.OfferEventRepository().Append(ctx, countered))
		s.Require().NoError(uow.OfferEventRepository().Append(ctx, sent))
	})

	q, err := queries.NewGetOfferHistoryQuery(of.ID())
	s.Require().NoError(err)

	got, err := queries.NewGetOfferHistoryQueryHandler(s.pg.DB).Handle(ctx, q)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("sent", got[0].Kind)
	s.Equal("countered", got[1].Kind)
	s.True(o.ID().IsEqual(got[1].OrderID))

	var payload map[string]string
	s.Require().NoError(json.Unmarshal(got[1].Payload, &payload))
	s.Equal("1800.00", payload["fare"])
	s.Equal("rider", payload["by"])
}

func (s *QueryHandlersTestSuite) TestGetOfferHistory_Unknown() {
	q, err := queries.NewGetOfferHistoryQuery(kernel.NewUUID())
	s.Require().NoError(err)

	_, err = queries.NewGetOfferHistoryQueryHandler(s.pg.DB).Handle(s.T().Context(), q)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *QueryHandlersTestSuite) TestHandle_CancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := queries.NewGetPendingOrdersQueryHandler(s.pg.DB).Handle(ctx, queries.NewGetPendingOrdersQuery())

	s.Require().Error(err)
	s.Nil(got)
}

func (s *QueryHandlersTestSuite) commit(fn func(uow ports.UnitOfWork)) {
	ctx := s.T().Context()
	uow := postgres.NewGormUnitOfWorkFactory(s.pg.DB).Create()
	s.Require().NoError(uow.Begin(ctx))
	fn(uow)
	s.Require().NoError(uow.Commit(ctx))
}

func (s *QueryHandlersTestSuite) newOrder(createdAt time.Time) *order.Order {
	loc, err := kernel.NewLocation(6.70, 6.70)
	s.Require().NoError(err)
	fare, err := kernel.NewFare(decimal.NewFromInt(1500))
	s.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), loc, loc, "food", "box", fare, createdAt, time.Minute)
	s.Require().NoError(err)
	return o
}

func (s *QueryHandlersTestSuite) newOffer(o *order.Order, at time.Time) *offer.Offer {
	of, err := offer.NewOffer(kernel.NewUUID(), o.ID(), kernel.NewUUID(), o.SuggestedCost(), at)
	s.Require().NoError(err)
	return of
}

func (s *QueryHandlersTestSuite) newRider(idleSince time.Time, lat, lon float64) *rider.Rider {
	r, err := rider.NewRider(kernel.NewUUID(), idleSince)
	s.Require().NoError(err)
	loc, err := kernel.NewLocation(lat, lon)
	s.Require().NoError(err)
	s.Require().NoError(r.UpdateLocation(loc, rider.Telemetry{}, idleSince))
	return r
}
