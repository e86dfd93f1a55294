package http

import (
	"errors"
	"net/http"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var (
	errUnauthenticated  = errors.New("missing or malformed X-User-ID / X-User-Role headers")
	errWrongRole        = errors.New("role may not call this endpoint")
	errReadModelMissing = errors.New("read model requires the postgres store")
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// statusFor maps an error to its HTTP status and reason slug. Order matters: a joined
// error answers with the first category it belongs to.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, errWrongRole):
		return http.StatusForbidden, "wrong_role"
	case errors.Is(err, errReadModelMissing):
		return http.StatusNotImplemented, "not_implemented"
	case errors.Is(err, commands.ErrOfferExpired):
		return http.StatusBadRequest, "offer_expired"
	case errs.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, commands.ErrActorNotParticipant):
		return http.StatusForbidden, "not_participant"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, commands.ErrAlreadyResolved):
		return http.StatusConflict, "already_resolved"
	case errors.Is(err, commands.ErrOrderNotPending):
		return http.StatusConflict, "order_not_pending"
	case errors.Is(err, commands.ErrNoCandidatesFound):
		return http.StatusConflict, "no_candidates"
	case errors.Is(err, errs.ErrTransient):
		return http.StatusServiceUnavailable, "temporarily_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code, reason := statusFor(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = "internal error"
	}

	return c.JSON(code, ErrorResponse{Code: code, Reason: reason, Message: message})
}

// badRequest wraps a body or path problem as a validation error.
func badRequest(param string, cause error) error {
	return errs.NewValueIsInvalidErrorWithCause(param, cause)
}
