package handlers

import (
	"errors"
	"net/http"

	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MarketHandler struct {
	markets *services.MarketService
}

func NewMarketHandler(markets *services.MarketService) *MarketHandler {
	return &MarketHandler{markets: markets}
}

// GetMarkets lists all markets, seeding the demo set on first call.
func (h *MarketHandler) GetMarkets(c *gin.Context) {
	markets, err := h.markets.ListMarkets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markets": markets,
		"count":   len(markets),
	})
}

// GetMarketByID returns a specific market
func (h *MarketHandler) GetMarketByID(c *gin.Context) {
	market, err := h.markets.GetMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondMarketError(c, err)
		return
	}
	c.JSON(http.StatusOK, market)
}

type placeBetRequest struct {
	Side        string  `json:"side" binding:"required,oneof=YES NO"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	UserAddress string  `json:"user_address" binding:"required,eth_addr"`
}

// PlaceBet creates a pending bet against an open market.
func (h *MarketHandler) PlaceBet(c *gin.Context) {
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.markets.PlaceBet(
		c.Request.Context(),
		c.Param("id"),
		req.Side,
		decimal.NewFromFloat(req.Amount),
		req.UserAddress,
	)
	if err != nil {
		respondMarketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bet)
}

// ResolveMarket triggers resolution and returns the updated market.
func (h *MarketHandler) ResolveMarket(c *gin.Context) {
	market, err := h.markets.ResolveMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondMarketError(c, err)
		return
	}
	c.JSON(http.StatusOK, market)
}

// GetUserBets returns a user's bet history, most recent first.
func (h *MarketHandler) GetUserBets(c *gin.Context) {
	address := c.Param("address")
	if !ValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user address"})
		return
	}

	bets, err := h.markets.ListBetsByUser(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bets":  bets,
		"count": len(bets),
	})
}

func respondMarketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Market not found"})
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
