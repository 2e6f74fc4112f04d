package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type startGameRequest struct {
	RoomID int64 `json:"roomId"`
}

type answerRequest struct {
	RoomID     int64  `json:"roomId"`
	QuestionID int64  `json:"questionId"`
	AnswerID   int64  `json:"answerId"`
	PlayerName string `json:"playerName"`
}

type advanceRequest struct {
	RoomID     int64  `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type finalizeRequest struct {
	RoomID int64 `json:"roomId"`
}

func (h *Handler) startGame(c *gin.Context) {
	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	question, err := h.engine.Start(c.Request.Context(), req.RoomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Game started successfully.",
		"question": question,
	})
}

func (h *Handler) submitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	correct, err := h.engine.SubmitAnswer(c.Request.Context(), req.RoomID, req.QuestionID, req.AnswerID, req.PlayerName)
	if err != nil {
		h.fail(c, err)
		return
	}
	message := "Wrong answer."
	if correct {
		message = "Correct answer!"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "correct": correct})
}

func (h *Handler) currentQuestion(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId is required"})
		return
	}
	question := h.engine.CurrentQuestion(roomID, c.Query("playerName"))
	if question == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No active question for this room."})
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *Handler) advance(c *gin.Context) {
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	next, done, err := h.engine.Advance(c.Request.Context(), req.RoomID, req.PlayerName)
	if err != nil {
		h.fail(c, err)
		return
	}
	if done {
		c.JSON(http.StatusOK, gin.H{"message": "You have answered every question.", "finished": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Next question loaded.",
		"finished":     false,
		"nextQuestion": next,
	})
}

func (h *Handler) finalizeGame(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	message, err := h.engine.Finalize(c.Request.Context(), req.RoomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *Handler) gameState(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId is required"})
		return
	}
	snap, err := h.engine.Snapshot(roomID, c.Query("playerName"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No game found for this room."})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) gameResults(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Query("roomId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roomId is required"})
		return
	}
	results, err := h.engine.Results(c.Request.Context(), roomID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
