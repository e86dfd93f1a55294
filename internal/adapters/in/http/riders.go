package http

import (
	"errors"
	"net/http"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/application/usecases/queries"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"

	"github.com/labstack/echo/v4"
)

// RegisterRider handles POST /api/v1/riders for the calling rider account.
func (s *Server) RegisterRider(c echo.Context) error {
	actor, err := actorWithRole(c, offer.RoleRider)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRegisterRiderCommand(actor.ID())
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.h.RegisterRider.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusCreated)
}

// UpdateRiderLocation handles PUT /api/v1/riders/:id/location.
func (s *Server) UpdateRiderLocation(c echo.Context) error {
	riderID, err := s.selfRider(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req LocationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, badRequest("body", err))
	}

	if err := s.updateLocation(c, riderID, req); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetRiderAvailability handles PUT /api/v1/riders/:id/availability.
func (s *Server) SetRiderAvailability(c echo.Context) error {
	riderID, err := s.selfRider(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, badRequest("body", err))
	}
	if req.Available == nil {
		return s.fail(c, badRequest("available", errors.New("available is required")))
	}

	cmd, err := commands.NewSetRiderAvailabilityCommand(riderID, *req.Available)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.h.SetRiderAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetAvailableRiders handles GET /api/v1/riders/available.
func (s *Server) GetAvailableRiders(c echo.Context) error {
	if s.h.GetAvailableRiders == nil {
		return s.fail(c, errReadModelMissing)
	}
	if _, err := actorFrom(c); err != nil {
		return s.fail(c, err)
	}

	views, err := s.h.GetAvailableRiders.Handle(c.Request().Context(), queries.NewGetAvailableRidersQuery())
	if err != nil {
		return s.fail(c, err)
	}

	body := make([]RiderResponse, 0, len(views))
	for _, v := range views {
		body = append(body, RiderResponse{
			ID:                v.ID.String(),
			Location:          pointOf(v.Location),
			IdleSince:         v.IdleSince,
			LocationUpdatedAt: v.LocationUpdatedAt,
		})
	}

	return c.JSON(http.StatusOK, body)
}

// selfRider returns the :id path parameter when the caller is that rider.
func (s *Server) selfRider(c echo.Context) (kernel.UUID, error) {
	actor, err := actorWithRole(c, offer.RoleRider)
	if err != nil {
		return kernel.UUID{}, err
	}
	riderID, err := pathID(c, "id")
	if err != nil {
		return kernel.UUID{}, err
	}
	if !riderID.IsEqual(actor.ID()) {
		return kernel.UUID{}, commands.ErrActorNotParticipant
	}
	return riderID, nil
}

func (s *Server) updateLocation(c echo.Context, riderID kernel.UUID, req LocationUpdateRequest) error {
	loc, tel, err := req.parse()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateRiderLocationCommand(riderID, loc, tel)
	if err != nil {
		return err
	}

	return s.h.UpdateRiderLocation.Handle(c.Request().Context(), cmd)
}
