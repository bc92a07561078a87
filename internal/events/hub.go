// Package events pushes dashboard notifications to connected tabs over WebSocket.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ashureev/housing-outlook/internal/session"
	"github.com/coder/websocket"
)

// TypeKeyRegistered is sent after an API key has been accepted.
const TypeKeyRegistered = "key_registered"

const writeTimeout = 5 * time.Second

// Event is a notification delivered to the dashboard.
type Event struct {
	Type string `json:"type"`
}

type wsMessage struct {
	Type string `json:"type"`
}

// Hub tracks WebSocket connections per tab session.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[*websocket.Conn]struct{}

	allowedOrigin string
	isDev         bool
}

// NewHub creates an empty hub.
func NewHub(allowedOrigin string, isDev bool) *Hub {
	return &Hub{
		active:        make(map[string]map[*websocket.Conn]struct{}),
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// Register adds a connection for a session.
func (h *Hub) Register(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.active[sessionID]; !ok {
		h.active[sessionID] = make(map[*websocket.Conn]struct{})
	}
	h.active[sessionID][conn] = struct{}{}
	slog.Info("Event stream registered", "session_id", sessionID)
}

// Unregister removes a connection for a session.
func (h *Hub) Unregister(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.active[sessionID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.active, sessionID)
		}
		slog.Info("Event stream unregistered", "session_id", sessionID)
	}
}

// Count returns the number of connected streams.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.active {
		n += len(conns)
	}
	return n
}

// Broadcast sends ev to every connected tab.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to marshal event", "type", ev.Type, "error", err)
		return
	}

	// Snapshot connections to avoid holding the lock during writes.
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.active))
	for _, set := range h.active {
		for c := range set {
			conns = append(conns, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			slog.Debug("Event write failed", "type", ev.Type, "error", err)
		}
		cancel()
	}
	slog.Info("Event broadcast", "type", ev.Type, "streams", len(conns))
}

// KeyRegistered notifies all tabs that the AI features are now available.
func (h *Hub) KeyRegistered() {
	h.Broadcast(Event{Type: TypeKeyRegistered})
}

// ServeHTTP upgrades the request and keeps the stream open until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := session.IDFromContext(r.Context())

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "session_id", sessionID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "session_id", sessionID)
		}
	}()

	h.Register(sessionID, ws)
	defer h.Unregister(sessionID, ws)

	h.readLoop(r.Context(), ws, sessionID)
}

func (h *Hub) readLoop(ctx context.Context, ws *websocket.Conn, sessionID string) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "session_id", sessionID)
			} else {
				slog.Debug("WebSocket read error", "error", err, "session_id", sessionID)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			if err := ws.Write(writeCtx, websocket.MessageText, []byte(`{"type":"pong"}`)); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
			cancel()
		}
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}
