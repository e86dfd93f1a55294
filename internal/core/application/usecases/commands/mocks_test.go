package commands_test

import (
	"context"
	"testing"
	"time"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
	"mercuri/internal/core/domain/model/rider"
	"mercuri/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ExpirePending(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, of *offer.Offer) error {
	args := m.Called(ctx, of)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, of *offer.Offer) error {
	args := m.Called(ctx, of)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*offer.Offer, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) DeleteExpiredUnaccepted(ctx context.Context, now time.Time) ([]*offer.Offer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

type MockOfferEventRepository struct{ mock.Mock }

func (m *MockOfferEventRepository) Append(ctx context.Context, e *offer.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockOfferEventRepository) GetByOffer(ctx context.Context, offerID kernel.UUID) ([]*offer.Event, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Event), args.Error(1)
}

func (m *MockOfferEventRepository) GetDeclinedRiders(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) Add(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) GetAllAvailable(ctx context.Context) ([]*rider.Rider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Rider), args.Error(1)
}

// MockUoW satisfies every narrowed unit of work the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

func (m *MockUoW) OfferEventRepository() ports.OfferEventRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferEventRepository)
}

func (m *MockUoW) RiderRepository() ports.RiderRepository {
	args := m.Called()
	return args.Get(0).(ports.RiderRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRiderUoWFactory struct{ mock.Mock }

func (m *MockRiderUoWFactory) Create() commands.RiderUoW {
	args := m.Called()
	return args.Get(0).(commands.RiderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockContactBook struct{ mock.Mock }

func (m *MockContactBook) Lookup(ctx context.Context, id kernel.UUID) (ports.Contact, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(ports.Contact), args.Error(1)
}

type MockDispatchQueue struct{ mock.Mock }

func (m *MockDispatchQueue) Enqueue(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// repos bundles one mock of each repository behind a single mock unit of work.
type repos struct {
	uow    *MockUoW
	orders *MockOrderRepository
	offers *MockOfferRepository
	events *MockOfferEventRepository
	riders *MockRiderRepository
}

func newRepos() repos {
	r := repos{
		uow:    new(MockUoW),
		orders: new(MockOrderRepository),
		offers: new(MockOfferRepository),
		events: new(MockOfferEventRepository),
		riders: new(MockRiderRepository),
	}
	r.uow.On("OrderRepository").Return(r.orders).Maybe()
	r.uow.On("OfferRepository").Return(r.offers).Maybe()
	r.uow.On("OfferEventRepository").Return(r.events).Maybe()
	r.uow.On("RiderRepository").Return(r.riders).Maybe()
	return r
}

func (r repos) factory() *MockUoWFactory {
	f := new(MockUoWFactory)
	f.On("Create").Return(r.uow)
	return f
}

func (r repos) assert(t *testing.T) {
	t.Helper()
	r.uow.AssertExpectations(t)
	r.orders.AssertExpectations(t)
	r.offers.AssertExpectations(t)
	r.events.AssertExpectations(t)
	r.riders.AssertExpectations(t)
}

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func mustLocation(t *testing.T, lat, lon float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lat, lon)
	require.NoError(t, err)
	return loc
}

func mustFare(t *testing.T, s string) kernel.Fare {
	t.Helper()
	f, err := kernel.NewFare(decimal.RequireFromString(s))
	require.NoError(t, err)
	return f
}

func pendingOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		customerID,
		mustLocation(t, 6.70, 6.70),
		mustLocation(t, 6.75, 6.72),
		"documents",
		"envelope",
		mustFare(t, "1500"),
		t0,
		commands.DefaultOrderTTL,
	)
	require.NoError(t, err)
	return o
}

func openOffer(t *testing.T, o *order.Order, riderID kernel.UUID) *offer.Offer {
	t.Helper()
	of, err := offer.NewOffer(kernel.NewUUID(), o.ID(), riderID, o.SuggestedCost(), t0)
	require.NoError(t, err)
	return of
}

func availableRider(t *testing.T, lat, lon float64, idleSince time.Time) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(kernel.NewUUID(), idleSince)
	require.NoError(t, err)
	require.NoError(t, r.UpdateLocation(mustLocation(t, lat, lon), rider.Telemetry{}, idleSince))
	return r
}

func actor(t *testing.T, id kernel.UUID, role offer.Role) commands.Actor {
	t.Helper()
	a, err := commands.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func eventOfKind(kind offer.Kind) any {
	return mock.MatchedBy(func(e *offer.Event) bool { return e.Kind() == kind })
}

func notificationOfType(recipient kernel.UUID, eventType ports.EventType) any {
	return mock.MatchedBy(func(n ports.Notification) bool {
		return n.Type == eventType && n.Recipient.IsEqual(recipient)
	})
}
