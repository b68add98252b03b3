package handlers

import (
	"context"
	"net/http"
	"time"

	"prediction-arena/internal/pricefeed"
	"prediction-arena/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const forecastHorizonDays = 7

// Ledger records a prediction and always yields a transaction id.
type Ledger interface {
	Record(ctx context.Context, user string, userPred, aiPred decimal.Decimal) string
}

type PredictHandler struct {
	prices    services.PriceSource
	forecast  *services.ForecastService
	narrative *services.NarrativeService
	ledger    Ledger
}

func NewPredictHandler(prices services.PriceSource, forecast *services.ForecastService, narrative *services.NarrativeService, ledger Ledger) *PredictHandler {
	return &PredictHandler{
		prices:    prices,
		forecast:  forecast,
		narrative: narrative,
		ledger:    ledger,
	}
}

type predictRequest struct {
	UserAddress     string  `json:"user_address" binding:"required,eth_addr"`
	PredictionValue float64 `json:"prediction_value" binding:"required,gt=0"`
}

type predictResponse struct {
	UserPrediction  decimal.Decimal    `json:"user_prediction"`
	AIPrediction    decimal.Decimal    `json:"ai_prediction"`
	AIReasoning     string             `json:"ai_reasoning"`
	TransactionHash string             `json:"transaction_hash"`
	MarketData      pricefeed.Snapshot `json:"market_data"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Predict pits the caller's forecast against the model's, narrates the
// result and records it on the ledger.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		snap   pricefeed.Snapshot
		aiPred decimal.Decimal
	)

	// Price and forecast are independent reads.
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		snap = h.prices.Snapshot(ctx)
		return nil
	})
	g.Go(func() error {
		aiPred = h.forecast.Predict(forecastHorizonDays)
		return nil
	})
	_ = g.Wait()

	userPred := decimal.NewFromFloat(req.PredictionValue)
	reasoning := h.narrative.Narrate(c.Request.Context(), snap, aiPred)
	txHash := h.ledger.Record(c.Request.Context(), req.UserAddress, userPred, aiPred)

	c.JSON(http.StatusOK, predictResponse{
		UserPrediction:  userPred,
		AIPrediction:    aiPred,
		AIReasoning:     reasoning,
		TransactionHash: txHash,
		MarketData:      snap,
		Timestamp:       snap.Timestamp,
	})
}
