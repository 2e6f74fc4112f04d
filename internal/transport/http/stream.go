package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Both streams are level-triggered: every tick re-sends the full snapshot,
// so a missed tick is harmless. The loops stop the moment the client
// disconnects; that is expected and never surfaced as an error.

func (h *Handler) streamRoom(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "code is required"})
		return
	}
	h.serveSSE(c, func() (interface{}, bool) {
		room, err := h.rooms.ByCode(c.Request.Context(), code)
		if err != nil {
			return nil, false
		}
		return h.roomSnapshot(room), true
	})
}

func (h *Handler) streamGame(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId is required"})
		return
	}
	h.serveSSE(c, func() (interface{}, bool) {
		snap, err := h.engine.Snapshot(roomID, c.Query("playerName"))
		if err != nil {
			return nil, false
		}
		return snap, true
	})
}

// serveSSE emits one `data: {json}` event per tick until the client goes
// away. Ticks where the snapshot source has nothing (room deleted, no
// session yet) are skipped, not fatal.
func (h *Handler) serveSSE(c *gin.Context, snapshot func() (interface{}, bool)) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	for {
		if snap, ok := snapshot(); ok {
			payload, err := json.Marshal(snap)
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}

		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
