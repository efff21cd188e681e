package websocket

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to record change events
// @Description Upgrades the connection to a WebSocket that streams change events, one JSON event per text frame. Optionally filter with ?resources=components,loans
// @Tags events
// @Param resources query string false "Comma-separated resources to receive"
// @Param token query string false "Bearer token, required when authentication is enabled"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Router /events/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	var resources []string
	if raw := c.Query("resources"); raw != "" {
		for _, r := range strings.Split(raw, ",") {
			resources = append(resources, strings.TrimSpace(r))
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response
		h.logger.Warn().Err(err).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := newClient(h.hub, conn, resources, h.logger)
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
