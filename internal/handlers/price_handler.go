package handlers

import (
	"net/http"
	"time"

	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const streamInterval = 5 * time.Second

type PriceHandler struct {
	prices   services.PriceSource
	upgrader websocket.Upgrader
}

func NewPriceHandler(prices services.PriceSource) *PriceHandler {
	return &PriceHandler{
		prices: prices,
		upgrader: websocket.Upgrader{
			// CORS is enforced at the HTTP layer; the demo stream is public.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// GetPrice returns the current price snapshot.
func (h *PriceHandler) GetPrice(c *gin.Context) {
	snap := h.prices.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, snap)
}

// StreamPrice upgrades to a websocket and pushes a snapshot every few
// seconds until the client goes away.
func (h *PriceHandler) StreamPrice(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	// Send one immediately so clients don't wait a full tick.
	if err := conn.WriteJSON(h.prices.Snapshot(c.Request.Context())); err != nil {
		return
	}

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(h.prices.Snapshot(c.Request.Context())); err != nil {
				log.Debug().Err(err).Msg("price stream client gone")
				return
			}
		}
	}
}
