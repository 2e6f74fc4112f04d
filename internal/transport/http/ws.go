package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsRoom pushes the room snapshot over a websocket on the same cadence as
// the SSE stream. A write error or client close ends the loop.
func (h *Handler) wsRoom(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "code is required"})
		return
	}
	h.serveWS(c, func() (interface{}, bool) {
		room, err := h.rooms.ByCode(c.Request.Context(), code)
		if err != nil {
			return nil, false
		}
		return h.roomSnapshot(room), true
	})
}

func (h *Handler) wsGame(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId is required"})
		return
	}
	h.serveWS(c, func() (interface{}, bool) {
		snap, err := h.engine.Snapshot(roomID, c.Query("playerName"))
		if err != nil {
			return nil, false
		}
		return snap, true
	})
}

func (h *Handler) serveWS(c *gin.Context, snapshot func() (interface{}, bool)) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Drain inbound frames so close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	for {
		if snap, ok := snapshot(); ok {
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}

		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
