package handlers

import (
	"net/http"
	"time"

	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetLeaderboard returns the ranked accuracy table.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	rows, err := h.leaderboard.Top(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":       rows,
		"total_players": len(rows),
		"updated_at":    time.Now().UTC(),
	})
}
