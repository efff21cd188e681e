package websocket

import (
	"context"

	"github.com/rs/zerolog"
)

// Recorder writes every published event to the log as an audit trail
type Recorder struct {
	hub    *Hub
	events chan Event
	logger zerolog.Logger
}

// NewRecorder creates a Recorder attached to hub
func NewRecorder(hub *Hub, logger zerolog.Logger) *Recorder {
	return &Recorder{
		hub:    hub,
		events: make(chan Event, 100),
		logger: logger,
	}
}

// Start begins recording until ctx is cancelled
func (r *Recorder) Start(ctx context.Context) {
	r.hub.AddListener(r.events)
	go func() {
		defer r.hub.RemoveListener(r.events)
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-r.events:
				r.logger.Info().
					Str("type", e.Type).
					Str("resource", e.Resource).
					Str("id", e.ID).
					Str("parentId", e.ParentID).
					Time("at", e.Timestamp).
					Msg("Record changed")
			}
		}
	}()
}
