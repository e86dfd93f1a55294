package http

import (
	"net/http"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders. Dispatch starts asynchronously.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorWithRole(c, offer.RoleCustomer)
	if err != nil {
		return s.fail(c, err)
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, badRequest("body", err))
	}

	pickup, err := req.Pickup.location("pickup")
	if err != nil {
		return s.fail(c, err)
	}
	dropoff, err := req.Dropoff.location("dropoff")
	if err != nil {
		return s.fail(c, err)
	}
	cost, err := kernel.ParseFare(req.SuggestedCost)
	if err != nil {
		return s.fail(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, actor.ID(), pickup, dropoff, req.ItemCategory, req.ItemType, cost)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	actor, err := actorWithRole(c, offer.RoleCustomer)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor.ID())
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.h.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RedispatchOrder handles POST /api/v1/orders/:id/dispatch.
func (s *Server) RedispatchOrder(c echo.Context) error {
	actor, err := actorWithRole(c, offer.RoleCustomer)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRedispatchOrderCommand(orderID, actor.ID())
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.h.RedispatchOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

// GetOrder handles GET /api/v1/orders/:id. Only the customer, the assigned rider, and
// riders holding an offer on the order may read it.
func (s *Server) GetOrder(c echo.Context) error {
	if s.h.GetOrder == nil {
		return s.fail(c, errReadModelMissing)
	}
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	q, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	res, err := s.h.GetOrder.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	if !canRead(actor, res) {
		return s.fail(c, commands.ErrActorNotParticipant)
	}

	body := orderFromView(res.Order)
	body.Offers = make([]OfferResponse, 0, len(res.Offers))
	for _, of := range res.Offers {
		if actor.Role() == offer.RoleRider && !of.RiderID.IsEqual(actor.ID()) {
			continue
		}
		body.Offers = append(body.Offers, offerFromView(of))
	}

	return c.JSON(http.StatusOK, body)
}

// GetPendingOrders handles GET /api/v1/orders/pending.
func (s *Server) GetPendingOrders(c echo.Context) error {
	if s.h.GetPendingOrders == nil {
		return s.fail(c, errReadModelMissing)
	}
	if _, err := actorFrom(c); err != nil {
		return s.fail(c, err)
	}

	views, err := s.h.GetPendingOrders.Handle(c.Request().Context(), queries.NewGetPendingOrdersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	body := make([]OrderResponse, 0, len(views))
	for _, v := range views {
		body = append(body, orderFromView(v))
	}

	return c.JSON(http.StatusOK, body)
}

func canRead(actor commands.Actor, res *queries.GetOrderQueryResponse) bool {
	if actor.Role() == offer.RoleCustomer {
		return actor.ID().IsEqual(res.Order.CustomerID)
	}
	if res.Order.RiderID != nil && actor.ID().IsEqual(*res.Order.RiderID) {
		return true
	}
	for _, of := range res.Offers {
		if actor.ID().IsEqual(of.RiderID) {
			return true
		}
	}
	return false
}
