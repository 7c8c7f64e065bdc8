package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/etnz/holdings/source"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub manages WebSocket clients and broadcasts data source states, each client
// receiving the dashboard of its own category.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan source.State
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stop       sync.Once
	mu         sync.RWMutex
	render     func(source.State, string) ([]byte, error)
	log        zerolog.Logger
}

// Client represents a connected WebSocket client.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	category string
	send     chan []byte
}

// NewHub creates a new WebSocket hub. render encodes the dashboard of a state
// for a category.
func NewHub(log zerolog.Logger, render func(source.State, string) ([]byte, error)) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan source.State, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		render:     render,
		log:        log,
	}
}

// Run starts the hub's main event loop. Should be called as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug().Int("clients", h.ClientCount()).Str("category", client.category).Msg("WebSocket client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Debug().Int("clients", h.ClientCount()).Msg("WebSocket client disconnected")

		case st := <-h.broadcast:
			// one encoding per category.
			payloads := make(map[string][]byte)
			h.mu.RLock()
			var slow []*Client
			for client := range h.clients {
				data, ok := payloads[client.category]
				if !ok {
					var err error
					data, err = h.render(st, client.category)
					if err != nil {
						h.log.Warn().Err(err).Msg("Failed to marshal dashboard")
						continue
					}
					payloads[client.category] = data
				}
				select {
				case client.send <- data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			if len(slow) > 0 {
				h.mu.Lock()
				for _, c := range slow {
					if _, ok := h.clients[c]; ok {
						delete(h.clients, c)
						close(c.send)
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

// Stop signals the hub's event loop to exit.
func (h *Hub) Stop() {
	h.stop.Do(func() { close(h.done) })
}

// Broadcast sends a state to all connected clients.
func (h *Hub) Broadcast(st source.State) {
	select {
	case h.broadcast <- st:
	default:
		h.log.Warn().Msg("WebSocket broadcast channel full, dropping state")
	}
}

// ServeWS upgrades an HTTP connection to WebSocket, sends the dashboard of
// the current state and registers the client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, category string, current source.State) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		category: category,
		send:     make(chan []byte, 16),
	}
	if data, err := h.render(current, category); err == nil {
		client.send <- data
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

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writePump sends messages from the send channel to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads messages from the WebSocket connection (mainly to detect close).
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
