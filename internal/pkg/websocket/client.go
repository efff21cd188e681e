package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Consoles only send subscription changes
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer for regular requests; the
	// event stream is read-only.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// subscribeMessage replaces the set of resources a client receives.
// An empty list means every resource.
type subscribeMessage struct {
	Resources []string `json:"resources"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	mu        sync.RWMutex
	resources map[string]bool

	logger zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, resources []string, logger zerolog.Logger) *Client {
	c := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: logger,
	}
	c.setResources(resources)
	return c
}

func (c *Client) setResources(resources []string) {
	set := make(map[string]bool, len(resources))
	for _, r := range resources {
		if r != "" {
			set[r] = true
		}
	}
	c.mu.Lock()
	c.resources = set
	c.mu.Unlock()
}

// wants reports whether the client subscribed to resource
func (c *Client) wants(resource string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resources) == 0 || c.resources[resource]
}

func (c *Client) resourceList() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.resources))
	for r := range c.resources {
		out = append(out, r)
	}
	return out
}

func (c *Client) remoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// readPump handles subscription updates and detects closed connections
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
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Msg("WebSocket closed")
			}
			break
		}

		var msg subscribeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Debug().Err(err).Msg("Ignoring malformed client message")
			continue
		}
		c.setResources(msg.Resources)
	}
}

// writePump pumps events from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
