package orderrepo_test

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

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
}

func TestOrderRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

func (s *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	s.Require().NoError(err)
	s.pg = pg
}

func (s *OrderRepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate())
	s.repository = orderrepo.NewGormOrderRepository(s.pg.DB)
}

func (s *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.pg.Stop(context.Background()))
}

func (s *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := s.T().Context()
	o := s.newOrder(time.Minute)

	s.Require().NoError(s.repository.Add(ctx, o))

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.True(o.ID().IsEqual(got.ID()))
	s.True(o.Customer().IsEqual(got.Customer()))
	s.Nil(got.Rider())
	s.Equal(order.Pending, got.Status())
	s.InDelta(6.70, got.Pickup().Latitude(), 1e-9)
	s.InDelta(6.72, got.Dropoff().Longitude(), 1e-9)
	s.Equal("food", got.ItemCategory())
	s.Equal("box", got.ItemType())
	s.Equal("1500.00", got.SuggestedCost().String())
	s.True(t0.Equal(got.CreatedAt()))
	s.True(t0.Add(time.Minute).Equal(got.ExpiresAt()))
}

func (s *OrderRepositoryIntegrationTestSuite) TestAdd_Duplicate() {
	ctx := s.T().Context()
	o := s.newOrder(time.Minute)

	s.Require().NoError(s.repository.Add(ctx, o))
	s.Error(s.repository.Add(ctx, o))
}

func (s *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsAcceptance() {
	ctx := s.T().Context()
	o := s.newOrder(time.Minute)
	s.Require().NoError(s.repository.Add(ctx, o))

	riderID := kernel.NewUUID()
	s.Require().NoError(o.Accept(riderID, t0.Add(10*time.Second)))
	s.Require().NoError(s.repository.Update(ctx, o))

	got, err := s.repository.Get(ctx, o.ID())
	s.Require().NoError(err)
	s.Equal(order.Accepted, got.Status())
	s.Require().NotNil(got.Rider())
	s.True(riderID.IsEqual(*got.Rider()))
	s.Require().NotNil(got.AcceptedAt())
	s.True(t0.Add(10 * time.Second).Equal(*got.AcceptedAt()))
}

func (s *OrderRepositoryIntegrationTestSuite) TestUpdate_Missing() {
	err := s.repository.Update(s.T().Context(), s.newOrder(time.Minute))

	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *OrderRepositoryIntegrationTestSuite) TestGet_Missing() {
	got, err := s.repository.Get(s.T().Context(), kernel.NewUUID())

	s.Nil(got)
	var notFound *errs.ObjectNotFoundError
	s.ErrorAs(err, &notFound)
}

func (s *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_BlocksSecondLocker() {
	ctx := s.T().Context()
	o := s.newOrder(time.Minute)
	s.Require().NoError(s.repository.Add(ctx, o))

	first := s.pg.DB.Begin()
	s.Require().NoError(first.Error)
	defer first.Rollback()

	_, err := orderrepo.NewGormOrderRepository(first).GetForUpdate(ctx, o.ID())
	s.Require().NoError(err)

	acquired := make(chan error, 1)
	go func() {
		second := s.pg.DB.Begin()
		if second.Error != nil {
			acquired <- second.Error
			return
		}
		defer second.Rollback()
		_, err := orderrepo.NewGormOrderRepository(second).GetForUpdate(ctx, o.ID())
		acquired <- err
	}()

	select {
	case <-acquired:
		s.FailNow("second GetForUpdate returned while the first lock was held")
	case <-time.After(300 * time.Millisecond):
	}

	s.Require().NoError(first.Commit().Error)

	select {
	case err := <-acquired:
		s.NoError(err)
	case <-time.After(5 * time.Second):
		s.FailNow("second GetForUpdate never acquired the lock")
	}
}

func (s *OrderRepositoryIntegrationTestSuite) TestExpirePending() {
	ctx := s.T().Context()
	overdue := s.newOrder(time.Minute)
	fresh := s.newOrder(10 * time.Minute)
	won := s.newOrder(time.Minute)
	s.Require().NoError(won.Accept(kernel.NewUUID(), t0.Add(time.Second)))
	for _, o := range []*order.Order{overdue, fresh, won} {
		s.Require().NoError(s.repository.Add(ctx, o))
	}

	now := t0.Add(2 * time.Minute)
	expired, err := s.repository.ExpirePending(ctx, now)
	s.Require().NoError(err)
	s.Require().Len(expired, 1)
	s.True(overdue.ID().IsEqual(expired[0].ID()))
	s.Equal(order.Expired, expired[0].Status())

	stored, err := s.repository.Get(ctx, won.ID())
	s.Require().NoError(err)
	s.Equal(order.Accepted, stored.Status(), "resolved orders are never touched")

	again, err := s.repository.ExpirePending(ctx, now)
	s.Require().NoError(err)
	s.Empty(again)
}

func (s *OrderRepositoryIntegrationTestSuite) TestDeletingOrderCascadesToOffersAndLedger() {
	ctx := s.T().Context()
	o := s.newOrder(time.Minute)
	s.Require().NoError(s.repository.Add(ctx, o))

	of, err := offer.NewOffer(kernel.NewUUID(), o.ID(), kernel.NewUUID(), o.SuggestedCost(), t0)
	s.Require().NoError(err)
	s.Require().NoError(offerrepo.NewGormOfferRepository(s.pg.DB).Add(ctx, of))
	ev, err := offer.NewEvent(of, offer.SentPayload{RiderID: of.RiderID()}, t0)
	s.Require().NoError(err)
	s.Require().NoError(offerrepo.NewGormOfferEventRepository(s.pg.DB).Append(ctx, ev))

	s.Require().NoError(s.pg.DB.Exec("DELETE FROM orders WHERE id = ?", o.ID().Bytes()).Error)

	var offers, events int64
	s.Require().NoError(s.pg.DB.Model(&offerrepo.OfferDTO{}).Count(&offers).Error)
	s.Require().NoError(s.pg.DB.Model(&offerrepo.OfferEventDTO{}).Count(&events).Error)
	s.Zero(offers)
	s.Zero(events)
}

func (s *OrderRepositoryIntegrationTestSuite) newOrder(ttl time.Duration) *order.Order {
	pickup, err := kernel.NewLocation(6.70, 6.70)
	s.Require().NoError(err)
	dropoff, err := kernel.NewLocation(6.75, 6.72)
	s.Require().NoError(err)
	fare, err := kernel.NewFare(decimal.NewFromInt(1500))
	s.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff, "food", "box", fare, t0, ttl)
	s.Require().NoError(err)
	return o
}
