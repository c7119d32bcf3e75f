// internal/dating/websocket.go

package dating

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/imadgeboyega/kiekky-discovery/internal/common/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

var ErrHubStopped = errors.New("event hub stopped")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Configure origin checking in production
		return true
	},
}

// Hub fans events out to users' WebSocket connections. All client state is
// owned by the Run goroutine.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        logger.Logger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Event
	userID int64
}

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		broadcast:  make(chan Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.WithFields(map[string]interface{}{"component": "event_hub"}),
	}
}

// Run processes registrations and events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			wsConnections.Inc()
			h.log.Debug("User connected", map[string]interface{}{"user_id": client.userID})

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.broadcast:
			for client := range h.clients[event.UserID] {
				select {
				case client.send <- event:
				default:
					h.log.Warn("Dropping slow client", map[string]interface{}{"user_id": client.userID})
					h.remove(client)
				}
			}

		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					h.remove(client)
				}
			}
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)
	wsConnections.Dec()
	h.log.Debug("User disconnected", map[string]interface{}{"user_id": client.userID})
}

// Publish implements Publisher. Events for users without a connection are dropped.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	select {
	case h.broadcast <- event:
		eventsPublished.WithLabelValues(event.Type).Inc()
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeWS upgrades the request and attaches the connection to userID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", map[string]interface{}{"user_id": userID, "error": err})
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan Event, sendBufferSize),
		userID: userID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for close and pong frames; clients do not send events.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
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
