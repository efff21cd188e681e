package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types
const (
	EventCreated  = "created"
	EventUpdated  = "updated"
	EventDeleted  = "deleted"
	EventReturned = "returned"
)

// Event announces a change to a stored record
type Event struct {
	// Type of change: "created", "updated", "deleted", "returned"
	Type string `json:"type"`

	// Resource collection the record belongs to, e.g. "components"
	Resource string `json:"resource"`

	// ID of the changed record
	ID string `json:"id"`

	// ParentID is set for nested records such as sections
	ParentID string `json:"parentId,omitempty"`

	// Timestamp when the change was committed
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of connected consoles and fans events out to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Channel for events published by services
	broadcast chan Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Mutex for event listeners
	listenersMu sync.RWMutex

	// In-process event listeners
	listeners []chan Event

	// Closed when Run returns
	done chan struct{}

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run dispatches registrations and events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues an event for delivery. It never blocks; when the queue is
// full the event is dropped and logged.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Str("resource", event.Resource).
			Str("id", event.ID).
			Msg("Event queue full, dropping event")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Strs("resources", client.resourceList()).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("addr", client.remoteAddr()).
			Msg("Client unregistered")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// broadcastEvent delivers event to listeners and to every subscribed client
func (h *Hub) broadcastEvent(event Event) {
	h.notifyListeners(event)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal event for broadcast")
		return
	}

	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if !client.wants(event.Resource) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full; drop it
			slow = append(slow, client)
		}
	}
	count := len(h.clients)
	h.mu.RUnlock()

	for _, client := range slow {
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Str("type", event.Type).
		Str("resource", event.Resource).
		Int("clientCount", count).
		Msg("Event broadcasted")
}

func (h *Hub) notifyListeners(event Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow event listener")
		}
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AddListener registers a channel to receive every event
func (h *Hub) AddListener(listener chan Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.listeners = append(h.listeners, listener)
}

// RemoveListener removes a listener from the hub
func (h *Hub) RemoveListener(listener chan Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}
