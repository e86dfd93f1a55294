package http

import (
	"context"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/core/domain/model/order"
)

// Use-case handlers the server calls. The commands and queries packages provide them.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}
	RedispatchOrderHandler interface {
		Handle(ctx context.Context, cmd commands.RedispatchOrderCommand) error
	}
	AcceptOfferHandler interface {
		Handle(ctx context.Context, cmd commands.AcceptOfferCommand) (*order.Order, error)
	}
	CounterOfferHandler interface {
		Handle(ctx context.Context, cmd commands.CounterOfferCommand) (*offer.Offer, error)
	}
	DeclineOfferHandler interface {
		Handle(ctx context.Context, cmd commands.DeclineOfferCommand) error
	}
	RegisterRiderHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterRiderCommand) error
	}
	UpdateRiderLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateRiderLocationCommand) error
	}
	SetRiderAvailabilityHandler interface {
		Handle(ctx context.Context, cmd commands.SetRiderAvailabilityCommand) error
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, q queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
	}
	GetPendingOrdersHandler interface {
		Handle(ctx context.Context, q queries.GetPendingOrdersQuery) ([]queries.OrderView, error)
	}
	GetAvailableRidersHandler interface {
		Handle(ctx context.Context, q queries.GetAvailableRidersQuery) ([]queries.RiderView, error)
	}
	GetOfferHistoryHandler interface {
		Handle(ctx context.Context, q queries.GetOfferHistoryQuery) ([]queries.OfferEventView, error)
	}
)

// Handlers groups everything the server routes to. Query handlers may be nil when the
// store has no read model; their routes then answer 501.
type Handlers struct {
	CreateOrder          CreateOrderHandler
	CancelOrder          CancelOrderHandler
	RedispatchOrder      RedispatchOrderHandler
	AcceptOffer          AcceptOfferHandler
	CounterOffer         CounterOfferHandler
	DeclineOffer         DeclineOfferHandler
	RegisterRider        RegisterRiderHandler
	UpdateRiderLocation  UpdateRiderLocationHandler
	SetRiderAvailability SetRiderAvailabilityHandler

	GetOrder           GetOrderHandler
	GetPendingOrders   GetPendingOrdersHandler
	GetAvailableRiders GetAvailableRidersHandler
	GetOfferHistory    GetOfferHistoryHandler
}
