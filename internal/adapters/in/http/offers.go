package http

import (
	"errors"
	"net/http"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/observability"
	"mercuri/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// AcceptOffer handles POST /api/v1/offers/:id/accept. A rider accepts the platform
// offer; a customer accepts a rider's counter.
func (s *Server) AcceptOffer(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAcceptOfferCommand(offerID, actor)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.h.AcceptOffer.Handle(c.Request().Context(), cmd)
	observability.AcceptTotal.WithLabelValues(acceptResult(err)).Inc()
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, orderFromDomain(o))
}

// CounterOffer handles POST /api/v1/offers/:id/counter.
func (s *Server) CounterOffer(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err)
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	var req CounterOfferRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, badRequest("body", err))
	}
	fare, err := kernel.ParseFare(req.Fare)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCounterOfferCommand(offerID, fare, actor)
	if err != nil {
		return s.fail(c, err)
	}

	of, err := s.h.CounterOffer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, offerFromDomain(of))
}

// DeclineOffer handles POST /api/v1/offers/:id/decline. Only riders decline.
func (s *Server) DeclineOffer(c echo.Context) error {
	actor, err := actorWithRole(c, offer.RoleRider)
	if err != nil {
		return s.fail(c, err)
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewDeclineOfferCommand(offerID, actor.ID())
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.h.DeclineOffer.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOfferHistory handles GET /api/v1/offers/:id/events.
func (s *Server) GetOfferHistory(c echo.Context) error {
	if s.h.GetOfferHistory == nil {
		return s.fail(c, errReadModelMissing)
	}
	if _, err := actorFrom(c); err != nil {
		return s.fail(c, err)
	}
	offerID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}

	q, err := queries.NewGetOfferHistoryQuery(offerID)
	if err != nil {
		return s.fail(c, err)
	}

	events, err := s.h.GetOfferHistory.Handle(c.Request().Context(), q)
	if err != nil {
		return s.fail(c, err)
	}

	body := make([]OfferEventResponse, 0, len(events))
	for _, e := range events {
		body = append(body, OfferEventResponse{
			ID:        e.ID.String(),
			OrderID:   e.OrderID.String(),
			RiderID:   e.RiderID.String(),
			Kind:      e.Kind,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, body)
}

func acceptResult(err error) string {
	switch {
	case err == nil:
		return "won"
	case errors.Is(err, commands.ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, commands.ErrOfferExpired):
		return "expired"
	case errors.Is(err, commands.ErrActorNotParticipant):
		return "not_participant"
	case errors.Is(err, errs.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
