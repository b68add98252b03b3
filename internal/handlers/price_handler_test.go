package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prediction-arena/internal/pricefeed"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPriceHandler(stubPrices{price: decimal.NewFromFloat(2510.25)})

	r := gin.New()
	r.GET("/api/v1/price", h.GetPrice)
	r.GET("/api/v1/price/stream", h.StreamPrice)
	return r
}

func TestGetPrice(t *testing.T) {
	w := getPath(priceRouter(), "/api/v1/price")
	require.Equal(t, http.StatusOK, w.Code)

	var snap pricefeed.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "ETH", snap.Asset)
	assert.True(t, snap.CurrentPrice.Equal(decimal.NewFromFloat(2510.25)))
}

func TestStreamPriceSendsSnapshotImmediately(t *testing.T) {
	srv := httptest.NewServer(priceRouter())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/price/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var snap pricefeed.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "ETH", snap.Asset)
}
