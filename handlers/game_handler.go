package handlers

import (
	"encoding/json"
	"net/http"

	"playbox/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

func (h *GameHandler) Create(c *gin.Context) {
	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.gameService.Create(c.Param("slug"), &req, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *GameHandler) GetDetail(c *gin.Context) {
	detail, err := h.gameService.GetDetail(c.Param("slug"), c.Param("game_id"), requesterID(c), requesterRole(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *GameHandler) Update(c *gin.Context) {
	var req services.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.gameService.Update(c.Param("slug"), c.Param("game_id"), &req, requesterID(c), requesterRole(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("game_id")})
}

func (h *GameHandler) Delete(c *gin.Context) {
	err := h.gameService.Delete(c.Param("slug"), c.Param("game_id"), requesterID(c), requesterRole(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GameHandler) PlayPublic(c *gin.Context) {
	view, err := h.gameService.GetPlay(c.Param("slug"), c.Param("game_id"), true, "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) PlayPrivate(c *gin.Context) {
	view, err := h.gameService.GetPlay(c.Param("slug"), c.Param("game_id"), false, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) CheckAnswer(c *gin.Context) {
	var submission json.RawMessage
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.CheckAnswers(c.Param("slug"), c.Param("game_id"), submission)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
