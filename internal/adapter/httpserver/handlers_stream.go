package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nimeshpahadi/betstream/internal/broadcast"
	"github.com/nimeshpahadi/betstream/internal/metrics"
)

const wsWriteTimeout = 5 * time.Second

// streamFrame is the wire shape of one event on the WebSocket transport.
// SSE carries the same type and data through its native event/data fields.
type streamFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API is origin-agnostic, same as its CORS policy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleSSE(c echo.Context) error {
	if !s.streamLimiter.Acquire() {
		metrics.StreamConnectionsRejected.Inc()
		return echo.NewHTTPError(http.StatusServiceUnavailable, "stream capacity reached")
	}
	defer s.streamLimiter.Release()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	metrics.StreamConnectionsTotal.WithLabelValues("sse").Inc()
	metrics.StreamConnectionsActive.Inc()
	defer metrics.StreamConnectionsActive.Dec()

	sub := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(sub)

	ctx := c.Request().Context()
	slog.InfoContext(ctx, "SSE stream opened", "subscription_id", sub.ID().String())

	for {
		item, err := sub.Next(ctx)
		if err != nil {
			slog.InfoContext(ctx, "SSE stream closed",
				"subscription_id", sub.ID().String(), "reason", err)
			return nil
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", item.Type, item.Data); err != nil {
			return nil
		}
		w.Flush()
	}
}

func (s *Server) handleWebSocket(c echo.Context) error {
	if !s.streamLimiter.Acquire() {
		metrics.StreamConnectionsRejected.Inc()
		return echo.NewHTTPError(http.StatusServiceUnavailable, "stream capacity reached")
	}
	defer s.streamLimiter.Release()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}
	defer conn.Close()

	metrics.StreamConnectionsTotal.WithLabelValues("websocket").Inc()
	metrics.StreamConnectionsActive.Inc()
	defer metrics.StreamConnectionsActive.Dec()

	sub := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(sub)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// The stream is one-way. The reader exists only to notice the peer
	// closing and to service control frames.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	slog.InfoContext(ctx, "WebSocket stream opened", "subscription_id", sub.ID().String())

	for {
		item, err := sub.Next(ctx)
		if err != nil {
			slog.InfoContext(ctx, "WebSocket stream closed",
				"subscription_id", sub.ID().String(), "reason", err)
			return nil
		}

		if err := s.writeFrame(conn, item); err != nil {
			return nil
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, item broadcast.Outbound) error {
	payload, err := json.Marshal(streamFrame{Type: item.Type, Data: item.Data})
	if err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		if !errors.Is(err, websocket.ErrCloseSent) {
			slog.Debug("WebSocket write failed", "error", err)
		}
		return err
	}
	return nil
}
