package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"tally/internal/feed"
)

// StreamHandler serves the change feed over server-sent events
type StreamHandler struct {
	hub *feed.Hub
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(hub *feed.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// streamEvent is the SSE payload for one change event.
type streamEvent struct {
	Kind   string `json:"kind"`
	Action string `json:"action"`
	ID     string `json:"id"`
}

// Stream subscribes the client to its own change feed and pushes one SSE
// message per ledger change until the client disconnects.
func (h *StreamHandler) Stream(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sub := h.hub.Subscribe(userID)
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("change", streamEvent{
				Kind:   string(evt.Kind),
				Action: string(evt.Action),
				ID:     evt.ID,
			})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
