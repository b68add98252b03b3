// Package pricefeed reads the current ETH price from CoinGecko and fails
// open: callers always get a snapshot, synthesized locally when the
// upstream is unreachable, rate-limited or tripped the circuit breaker.
package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	coingeckoURL = "https://api.coingecko.com/api/v3/simple/price" +
		"?ids=ethereum&vs_currencies=usd&include_24hr_change=true&include_market_cap=true"
	requestTimeout = 5 * time.Second
)

// Snapshot is a point-in-time read of the tracked asset.
type Snapshot struct {
	Asset          string          `json:"asset"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	PriceChange24h decimal.Decimal `json:"price_change_24h"`
	MarketCap      decimal.Decimal `json:"market_cap"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Cache stores recent snapshots to bound upstream call volume.
type Cache interface {
	Get(ctx context.Context) (Snapshot, bool)
	Set(ctx context.Context, snap Snapshot)
}

// Service fetches price snapshots with a short cache, an upstream call
// budget and a circuit breaker in front of CoinGecko.
type Service struct {
	client  *http.Client
	cache   Cache
	breaker *gobreaker.CircuitBreaker
	budget  *rate.Limiter
}

// NewService builds a price service. cacheTTL is applied by the supplied
// cache; pass NewMemoryCache(ttl) for the process-local default.
func NewService(cache Cache) *Service {
	return &Service{
		client: &http.Client{Timeout: requestTimeout},
		cache:  cache,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "coingecko",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).
					Str("from", from.String()).Str("to", to.String()).
					Msg("price breaker state change")
			},
		}),
		// CoinGecko free tier tolerates ~30 calls/min; keep well under it.
		budget: rate.NewLimiter(rate.Every(3*time.Second), 5),
	}
}

// Snapshot returns the current price. It never returns an error: any
// upstream problem is absorbed into a simulated snapshot.
func (s *Service) Snapshot(ctx context.Context) Snapshot {
	if snap, ok := s.cache.Get(ctx); ok {
		return snap
	}

	if !s.budget.Allow() {
		log.Debug().Msg("upstream price budget exhausted, simulating")
		return s.simulate()
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		log.Warn().Err(err).Msg("CoinGecko unavailable, simulating price")
		return s.simulate()
	}

	snap := result.(Snapshot)
	s.cache.Set(ctx, snap)
	return snap
}

func (s *Service) fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coingeckoURL, nil)
	if err != nil {
		return Snapshot{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("coingecko returned %d", resp.StatusCode)
	}

	// Response: {"ethereum":{"usd":2510.2,"usd_24h_change":1.3,"usd_market_cap":3.0e11}}
	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Snapshot{}, fmt.Errorf("coingecko parse error: %w", err)
	}

	data, ok := payload["ethereum"]
	if !ok {
		return Snapshot{}, fmt.Errorf("coingecko response missing ethereum")
	}

	return Snapshot{
		Asset:          "ETH",
		CurrentPrice:   decimal.NewFromFloat(data["usd"]).Round(2),
		PriceChange24h: decimal.NewFromFloat(data["usd_24h_change"]).Round(2),
		MarketCap:      decimal.NewFromFloat(data["usd_market_cap"]).Round(0),
		Timestamp:      time.Now().UTC(),
	}, nil
}

// simulate produces a plausible snapshot around a fixed base so the demo
// keeps working without network access.
func (s *Service) simulate() Snapshot {
	base := 2500.0
	noise := rand.Float64()*200 - 100
	price := decimal.NewFromFloat(base + noise).Round(2)

	return Snapshot{
		Asset:          "ETH",
		CurrentPrice:   price,
		PriceChange24h: decimal.NewFromFloat(rand.Float64()*10 - 5).Round(2),
		MarketCap:      price.Mul(decimal.NewFromInt(120_000_000)).Round(0),
		Timestamp:      time.Now().UTC(),
	}
}
