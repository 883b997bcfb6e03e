package notification

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// wsWriter is the slice of *websocket.Conn the hub needs.
type wsWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// websocket.Conn does not allow concurrent writers, so every connection
// carries its own write lock.
type client struct {
	mu   sync.Mutex
	conn wsWriter
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks open websocket connections per user and pushes new
// notifications to them as they are created.
type Hub struct {
	mu    sync.RWMutex
	conns map[string][]*client // user ID hex -> open connections
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string][]*client),
	}
}

func (h *Hub) Register(userID string, conn wsWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], &client{conn: conn})
}

func (h *Hub) Unregister(userID string, conn wsWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c.conn != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
}

// Publish sends the notification to every open connection of the target user.
// Send failures are ignored; the read loop tears down broken connections.
func (h *Hub) Publish(n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := h.conns[n.UserID.Hex()]
	h.mu.RUnlock()

	for _, c := range conns {
		_ = c.send(payload)
	}
}
