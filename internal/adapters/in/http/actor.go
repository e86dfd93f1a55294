package http

import (
	"fmt"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the upstream auth gateway.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

func actorFrom(c echo.Context) (commands.Actor, error) {
	id, err := kernel.UUIDFromString(c.Request().Header.Get(HeaderUserID))
	if err != nil {
		return commands.Actor{}, fmt.Errorf("%w: %w", errUnauthenticated, err)
	}

	role, err := offer.ParseRole(c.Request().Header.Get(HeaderUserRole))
	if err != nil {
		return commands.Actor{}, fmt.Errorf("%w: %s", errUnauthenticated, err.Error())
	}

	return commands.NewActor(id, role)
}

func actorWithRole(c echo.Context, role offer.Role) (commands.Actor, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return commands.Actor{}, err
	}
	if actor.Role() != role {
		return commands.Actor{}, fmt.Errorf("%w: expected %s", errWrongRole, role)
	}
	return actor, nil
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, badRequest(name, err)
	}
	return id, nil
}
