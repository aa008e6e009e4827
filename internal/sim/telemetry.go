package sim

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vk/fuzztruck/internal/ctxlog"
	"github.com/vk/fuzztruck/internal/wire"
)

// Frame is one telemetry sample pushed to websocket observers.
type Frame struct {
	Session string  `json:"session"`
	Cycle   int     `json:"cycle"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Angle   float64 `json:"angle"`
	Done    bool    `json:"done"`
	Docked  bool    `json:"docked"`
}

// Hub fans truck state out to websocket observers. Slow or dead observers
// are dropped on write failure instead of backpressuring the simulation.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates an empty telemetry hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// Telemetry is read-only and unauthenticated; origin checks
			// would add nothing here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the observer until its
// connection drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("Telemetry upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	logger.Debug("Telemetry observer connected.", "remote_addr", r.RemoteAddr)

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Observers never send data; this read loop only exists to notice the
	// connection closing.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast pushes one frame to every observer.
func (h *Hub) Broadcast(ctx context.Context, session string, cycle int, st wire.State, done, docked bool) {
	frame := Frame{
		Session: session,
		Cycle:   cycle,
		X:       st.X,
		Y:       st.Y,
		Angle:   st.Angle,
		Done:    done,
		Docked:  docked,
	}

	// Writes stay under the lock: gorilla connections allow only one
	// concurrent writer, and sessions broadcast from separate goroutines.
	var failed []*websocket.Conn
	h.mu.Lock()
	for conn := range h.clients {
		if err := conn.WriteJSON(frame); err != nil {
			delete(h.clients, conn)
			failed = append(failed, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range failed {
		ctxlog.FromContext(ctx).Debug("Dropped telemetry observer.")
		conn.Close()
	}
}

// Close disconnects all observers.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}
