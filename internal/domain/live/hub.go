package live

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// Event is a real-time booking event pushed to subscribed clients.
type Event struct {
	Type     string `json:"type"`
	StudioID int64  `json:"studio_id"`
	Payload  any    `json:"payload,omitempty"`
}

// connection represents a single WebSocket client.
type connection struct {
	userID  int64
	conn    *websocket.Conn
	send    chan []byte
	studios map[int64]bool // subscribed studio IDs
}

// Hub fans booking and waitlist events out to connected front-desk clients,
// keyed by studio. It satisfies the EventSink interfaces of the booking and
// waitlist services.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection // userID -> connection
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.userID]; ok {
		close(existing.send)
	}
	h.connections[c.userID] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.userID]; ok && existing == c {
		delete(h.connections, c.userID)
		close(c.send)
	}
}

// Publish sends an event to every client subscribed to the studio. Slow
// clients are skipped rather than blocked on.
func (h *Hub) Publish(studioID int64, eventType string, payload any) {
	data, err := json.Marshal(&Event{Type: eventType, StudioID: studioID, Payload: payload})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.connections {
		if c.studios[studioID] {
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

// ServeWS registers a new connection and starts read/write loops. Blocks
// until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID int64, initialStudios []int64) {
	c := &connection{
		userID:  userID,
		conn:    conn,
		send:    make(chan []byte, 256),
		studios: make(map[int64]bool),
	}

	for _, id := range initialStudios {
		c.studios[id] = true
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd struct {
			Type     string `json:"type"`
			StudioID string `json:"studio_id"`
		}
		if err := json.Unmarshal(msg, &cmd); err != nil {
			continue
		}
		studioID, err := strconv.ParseInt(cmd.StudioID, 10, 64)
		if err != nil {
			continue
		}

		switch cmd.Type {
		case "subscribe":
			h.mu.Lock()
			c.studios[studioID] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.studios, studioID)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
