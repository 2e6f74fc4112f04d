package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

type createRoomRequest struct {
	PlayerName string `json:"playerName"`
}

type joinRoomRequest struct {
	Code       string `json:"code"`
	PlayerName string `json:"playerName"`
}

type leaveRoomRequest struct {
	PlayerName string `json:"playerName"`
	RoomID     int64  `json:"roomId"`
}

type countdownRequest struct {
	Code string `json:"code"`
}

func (h *Handler) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req.PlayerName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Room created successfully.",
		"joinCode":    room.Code,
		"roomId":      room.ID,
		"playerCount": len(room.Players),
	})
}

func (h *Handler) joinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	room, err := h.rooms.Join(c.Request.Context(), req.Code, req.PlayerName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Joined room " + room.Code + ".",
		"roomId":      room.ID,
		"playerCount": len(room.Players),
		"capacity":    room.Capacity,
	})
}

func (h *Handler) leaveRoom(c *gin.Context) {
	var req leaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if err := h.rooms.Leave(c.Request.Context(), req.PlayerName, req.RoomID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have left the room."})
}

func (h *Handler) availableRooms(c *gin.Context) {
	rooms, err := h.rooms.ListJoinable(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, gin.H{
			"id":          room.ID,
			"code":        room.Code,
			"description": room.Description,
			"players":     len(room.Players),
			"capacity":    room.Capacity,
			"creator":     room.CreatorName(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) roomByCode(c *gin.Context) {
	room, err := h.rooms.ByCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.roomDetail(room))
}

func (h *Handler) startCountdown(c *gin.Context) {
	var req countdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if err := h.countdown.Start(c.Request.Context(), req.Code); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Countdown started."})
}

func (h *Handler) roomDetail(room domain.Room) gin.H {
	names := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		names = append(names, p.Name)
	}
	return gin.H{
		"id":          room.ID,
		"code":        room.Code,
		"description": room.Description,
		"players":     names,
		"capacity":    room.Capacity,
		"creator":     room.CreatorName(),
	}
}

// roomSnapshot is the payload re-emitted on every stream tick.
func (h *Handler) roomSnapshot(room domain.Room) domain.RoomSnapshot {
	names := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		names = append(names, p.Name)
	}
	snap := domain.RoomSnapshot{
		ID:          room.ID,
		Code:        room.Code,
		Description: room.Description,
		Players:     names,
		Capacity:    room.Capacity,
		Creator:     room.CreatorName(),
		Timestamp:   time.Now().UTC(),
	}
	if value, ok := h.countdown.Value(room.Code); ok {
		snap.Countdown = &value
	}
	return snap
}
