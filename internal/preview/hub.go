// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ReloadMessage is the text frame that tells a page to reload.
const ReloadMessage = "reload"

const writeTimeout = 5 * time.Second

// Hub tracks the live-reload websocket clients of every open page.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and holds the connection until the page
// goes away. Clients never send anything meaningful; reading only detects
// the close.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	if !h.add(conn) {
		conn.Close()
		return
	}
	h.logger.Debug("live-reload client connected", zap.String("remote", r.RemoteAddr))

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(conn)
	h.logger.Debug("live-reload client disconnected", zap.String("remote", r.RemoteAddr))
}

func (h *Hub) add(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[conn] = struct{}{}
	return true
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends ReloadMessage to every client and drops the ones that
// fail. It returns how many clients were notified.
func (h *Hub) Broadcast() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(ReloadMessage)); err != nil {
			h.logger.Debug("dropping live-reload client", zap.Error(err))
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// Close disconnects every client and refuses new ones. http.Server.Shutdown
// does not track upgraded connections, so the server calls this itself.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for conn := range h.clients {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		delete(h.clients, conn)
	}
}
