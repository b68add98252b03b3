package pricefeed

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downTransport struct{}

func (downTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("upstream unreachable")
}

func TestSnapshotNeverFails(t *testing.T) {
	svc := NewService(NewMemoryCache(time.Minute))
	svc.client = &http.Client{Transport: downTransport{}}

	for i := 0; i < 5; i++ {
		snap := svc.Snapshot(context.Background())
		assert.Equal(t, "ETH", snap.Asset)
		assert.True(t, snap.CurrentPrice.IsPositive())
		assert.False(t, snap.Timestamp.IsZero())
	}
}

func TestSnapshotServesFromCache(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	cached := Snapshot{
		Asset:        "ETH",
		CurrentPrice: decimal.NewFromInt(1234),
		Timestamp:    time.Now().UTC(),
	}
	cache.Set(context.Background(), cached)

	svc := NewService(cache)
	svc.client = &http.Client{Transport: downTransport{}}

	snap := svc.Snapshot(context.Background())
	assert.True(t, snap.CurrentPrice.Equal(cached.CurrentPrice))
}

func TestSimulateStaysInBand(t *testing.T) {
	svc := NewService(NewMemoryCache(time.Minute))

	for i := 0; i < 200; i++ {
		snap := svc.simulate()

		price, _ := snap.CurrentPrice.Float64()
		require.GreaterOrEqual(t, price, 2400.0)
		require.LessOrEqual(t, price, 2600.0)

		change, _ := snap.PriceChange24h.Float64()
		require.GreaterOrEqual(t, change, -5.0)
		require.LessOrEqual(t, change, 5.0)

		expectedCap := snap.CurrentPrice.Mul(decimal.NewFromInt(120_000_000)).Round(0)
		require.True(t, snap.MarketCap.Equal(expectedCap))
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	cache := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	_, ok := cache.Get(ctx)
	assert.False(t, ok, "empty cache must miss")

	cache.Set(ctx, Snapshot{Asset: "ETH", CurrentPrice: decimal.NewFromInt(2500)})
	snap, ok := cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "ETH", snap.Asset)

	time.Sleep(20 * time.Millisecond)
	_, ok = cache.Get(ctx)
	assert.False(t, ok, "expired entry must miss")
}
