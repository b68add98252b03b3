package handlers

import (
	"net/http"
	"time"

	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	narrative *services.NarrativeService
}

func NewChatHandler(narrative *services.NarrativeService) *ChatHandler {
	return &ChatHandler{narrative: narrative}
}

type chatRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Chat forwards a prompt to the narrative service. The reply is never
// empty; upstream failures yield the canned fallback.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := h.narrative.Chat(c.Request.Context(), req.Prompt)
	c.JSON(http.StatusOK, gin.H{
		"response":  reply,
		"timestamp": time.Now().UTC(),
	})
}
