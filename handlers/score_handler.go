package handlers

import (
	"net/http"
	"strconv"

	"playbox/services"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
}

func NewScoreHandler(scoreService *services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

func (h *ScoreHandler) Submit(c *gin.Context) {
	var req services.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := h.scoreService.Submit(c.Request.Context(), requesterID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, score)
}

func (h *ScoreHandler) Highest(c *gin.Context) {
	score, err := h.scoreService.Highest(requesterID(c), c.Param("game_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

func (h *ScoreHandler) History(c *gin.Context) {
	history, err := h.scoreService.History(requesterID(c), c.Param("game_id"), limitQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *ScoreHandler) Leaderboard(c *gin.Context) {
	entries, err := h.scoreService.Leaderboard(c.Request.Context(), c.Param("game_id"), limitQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *ScoreHandler) UserAllScores(c *gin.Context) {
	scores, err := h.scoreService.UserAllScores(requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, scores)
}

func (h *ScoreHandler) TemplateLeaderboard(c *gin.Context) {
	entries, err := h.scoreService.TemplateLeaderboard(c.Request.Context(), c.Param("slug"), limitQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func limitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}
