package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarianoIzarriaga/Trivia/internal/domain"
)

// fail maps engine and directory errors to JSON client errors. Business
// failures become 4xx with their message; anything unexpected becomes a
// generic 500 so internals never leak.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrResultsNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrNotEnoughPlayers),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrPlayerNotInSession):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
