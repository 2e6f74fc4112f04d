package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarianoIzarriaga/Trivia/internal/game"
)

// Handler bundles the HTTP surface over the room directory and game engine.
type Handler struct {
	rooms          game.RoomDirectory
	engine         *game.Engine
	countdown      *game.Coordinator
	logger         *zap.Logger
	streamInterval time.Duration
}

func NewHandler(rooms game.RoomDirectory, engine *game.Engine, countdown *game.Coordinator, logger *zap.Logger, streamInterval time.Duration) *Handler {
	return &Handler{
		rooms:          rooms,
		engine:         engine,
		countdown:      countdown,
		logger:         logger,
		streamInterval: streamInterval,
	}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(200, "ok")
	})

	room := r.Group("/room")
	{
		room.POST("", h.createRoom)
		room.POST("/join", h.joinRoom)
		room.POST("/leave", h.leaveRoom)
		room.GET("/available", h.availableRooms)
		room.GET("/by-code", h.roomByCode)
		room.POST("/countdown/start", h.startCountdown)
		room.GET("/stream", h.streamRoom)
		room.GET("/ws", h.wsRoom)
	}

	g := r.Group("/game")
	{
		g.POST("/start", h.startGame)
		g.POST("/answer", h.submitAnswer)
		g.GET("/current-question", h.currentQuestion)
		g.POST("/advance", h.advance)
		g.POST("/finalize", h.finalizeGame)
		g.GET("/state", h.gameState)
		g.GET("/results", h.gameResults)
		g.GET("/stream", h.streamGame)
		g.GET("/ws", h.wsGame)
	}

	return r
}
