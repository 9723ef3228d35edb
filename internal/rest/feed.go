package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/tbeier/position-history/internal/model"
)

// FeedHub pushes the newest stored position to WebSocket subscribers so
// map clients do not have to poll the REST endpoints.
type FeedHub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// NewFeedHub creates an empty hub.
func NewFeedHub(logger *slog.Logger) *FeedHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHub{
		upgrader: websocket.Upgrader{
			// Cross-origin browsers are legitimate clients; the REST
			// layer's CORS policy is the access control here.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[string]*websocket.Conn),
	}
}

// Handle upgrades the request and keeps the connection registered until
// the peer goes away.
func (h *FeedHub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return NewBadRequestError("websocket upgrade failed", err)
	}

	id := uuid.New().String()
	h.mu.Lock()
	h.clients[id] = conn
	h.mu.Unlock()
	h.logger.Debug("feed client connected", "client_id", id)

	// Drain control frames; a read error means the peer is gone.
	go func() {
		defer h.drop(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Broadcast sends the record to every connected client, dropping clients
// whose connection errors.
func (h *FeedHub) Broadcast(rec model.PositionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, conn := range h.clients {
		if err := conn.WriteJSON(toRecordJSON(rec)); err != nil {
			h.logger.Debug("feed client dropped", "client_id", id, "err", err)
			conn.Close()
			delete(h.clients, id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *FeedHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *FeedHub) drop(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.clients[id]; ok {
		conn.Close()
		delete(h.clients, id)
	}
}

// Run polls the query engine for the newest record on the given interval
// and broadcasts it. It returns when ctx is cancelled. Only the newest
// record moves through the feed; history stays on the POST endpoints.
func (h *FeedHub) Run(ctx context.Context, client QueryClient, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSent int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if h.ClientCount() == 0 {
			continue
		}

		qctx, cancel := context.WithTimeout(ctx, timeout)
		rec, err := client.GetClosestEntryByTimestamp(qctx, time.Now().Unix())
		cancel()
		if err != nil {
			h.logger.Warn("feed refresh failed", "err", err)
			continue
		}
		if rec.Timestamp == lastSent {
			continue
		}
		lastSent = rec.Timestamp
		h.Broadcast(rec)
	}
}
