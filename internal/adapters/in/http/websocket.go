package http

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsReadLimit    = 4096
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteWait    = 10 * time.Second
)

// Message types on the rider location stream.
const (
	wsTypeUpdateLocation = "update_location"
	wsTypeAck            = "ack"
	wsTypeError          = "error"
)

type wsInbound struct {
	Type string `json:"type"`
	LocationUpdateRequest
}

type wsOutbound struct {
	Type    string `json:"type"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// RiderLocationStream handles GET /ws/riders/:id/location. Every update_location frame
// is applied like PUT /riders/:id/location and answered with ack or error.
func (s *Server) RiderLocationStream(c echo.Context) error {
	riderID, err := s.selfRider(c)
	if err != nil {
		return s.fail(c, err)
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already answered the client.
		return nil
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.ping(conn, done)

	log := s.logger.With("rider_id", riderID.String())
	log.DebugContext(c.Request().Context(), "location stream opened")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WarnContext(c.Request().Context(), "location stream dropped", "error", err)
			}
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		reply := s.handleFrame(c, raw)
		if reply.Type == wsTypeError && reply.Reason == "internal" {
			log.ErrorContext(c.Request().Context(), "location update failed", "error", reply.Message)
			reply.Message = "internal error"
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			return nil
		}
	}
}

func (s *Server) handleFrame(c echo.Context, raw []byte) wsOutbound {
	var in wsInbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return frameError(badRequest("message", err))
	}
	if in.Type != wsTypeUpdateLocation {
		return frameError(badRequest("type", errors.New("unsupported message type "+in.Type)))
	}

	riderID, err := pathID(c, "id")
	if err != nil {
		return frameError(err)
	}
	if err := s.updateLocation(c, riderID, in.LocationUpdateRequest); err != nil {
		return frameError(err)
	}

	return wsOutbound{Type: wsTypeAck}
}

func frameError(err error) wsOutbound {
	_, reason := statusFor(err)
	return wsOutbound{Type: wsTypeError, Reason: reason, Message: err.Error()}
}

func (s *Server) ping(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
