// Package http exposes the matching engine over REST and a rider location WebSocket.
// Callers are identified by the X-User-ID and X-User-Role headers the auth gateway sets.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server routes HTTP requests to the application's use cases.
type Server struct {
	h        Handlers
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		h:      h,
		logger: logger.With("component", "http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks happen at the gateway.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.Use(Metrics())

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws/riders/:id/location", s.RiderLocationStream)

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/pending", s.GetPendingOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/dispatch", s.RedispatchOrder)

	api.POST("/offers/:id/accept", s.AcceptOffer)
	api.POST("/offers/:id/counter", s.CounterOffer)
	api.POST("/offers/:id/decline", s.DeclineOffer)
	api.GET("/offers/:id/events", s.GetOfferHistory)

	api.POST("/riders", s.RegisterRider)
	api.GET("/riders/available", s.GetAvailableRiders)
	api.PUT("/riders/:id/location", s.UpdateRiderLocation)
	api.PUT("/riders/:id/availability", s.SetRiderAvailability)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
