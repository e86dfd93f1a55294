package http

import (
	"strconv"
	"time"

	"mercuri/internal/observability"

	"github.com/labstack/echo/v4"
)

// Metrics records request counts and latency per route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let echo write the response now so the recorded status is final.
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)

			observability.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, status).Inc()
			observability.HTTPRequestDuration.WithLabelValues(c.Request().Method, route, status).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
