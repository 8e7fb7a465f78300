package alert

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/atelier-hq/workplane/pkg/logutils"
)

// client pairs a connection with its write lock. Gorilla allows only
// one concurrent writer per connection and notifications fan out from
// detached goroutines, so every WriteJSON must hold mu.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Hub tracks live websocket connections per user so notifications can
// be pushed as they happen. This is the only long-lived in-process
// state in the service.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint][]*client
}

var (
	hubOnce sync.Once
	hub     *Hub
)

func GetHub() *Hub {
	hubOnce.Do(func() {
		hub = newHub()
	})
	return hub
}

func newHub() *Hub {
	return &Hub{clients: map[uint][]*client{}}
}

func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = append(h.clients[userID], &client{conn: conn})
}

func (h *Hub) Unregister(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.clients[userID]
	for i, c := range clients {
		if c.conn == conn {
			h.clients[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Publish sends v as JSON to every live connection of the user.
// A write failure only drops that connection's message; the client
// reconnects and reads the inbox.
func (h *Hub) Publish(userID uint, v any) {
	h.mu.RLock()
	clients := append([]*client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.conn.WriteJSON(v)
		c.mu.Unlock()
		if err != nil {
			logutils.Log.Debug("websocket publish: ", err)
		}
	}
}
