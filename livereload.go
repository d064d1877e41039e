package devblog

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const liveReloadWriteWait = 5 * time.Second

// LiveReload pushes reload messages to browsers over websockets.
type LiveReload struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewLiveReload creates an empty hub.
func NewLiveReload(logger *slog.Logger) *LiveReload {
	if logger == nil {
		logger = slog.Default()
	}
	return &LiveReload{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  256,
			WriteBufferSize: 256,
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler upgrades the request and keeps the connection until the
// browser goes away.
func (lr *LiveReload) Handler(c echo.Context) error {
	conn, err := lr.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
	}
	lr.mu.Lock()
	lr.clients[conn] = struct{}{}
	lr.mu.Unlock()

	// Browsers never send anything; the read loop only detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	lr.remove(conn)
	return nil
}

// Clients reports the number of connected browsers.
func (lr *LiveReload) Clients() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.clients)
}

// Broadcast sends msg to every connected browser, dropping the ones that fail.
func (lr *LiveReload) Broadcast(msg string) {
	lr.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(lr.clients))
	for c := range lr.clients {
		conns = append(conns, c)
	}
	lr.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(liveReloadWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			lr.logger.Debug("live reload client dropped", "error", err)
			lr.remove(conn)
		}
	}
}

// Close disconnects every browser.
func (lr *LiveReload) Close() {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	for conn := range lr.clients {
		_ = conn.Close()
		delete(lr.clients, conn)
	}
}

func (lr *LiveReload) remove(conn *websocket.Conn) {
	lr.mu.Lock()
	if _, ok := lr.clients[conn]; ok {
		delete(lr.clients, conn)
		_ = conn.Close()
	}
	lr.mu.Unlock()
}
