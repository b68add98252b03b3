package services

import (
	"context"
	"errors"
	"time"

	"prediction-arena/internal/config"
	"prediction-arena/internal/models"
	"prediction-arena/internal/pricefeed"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors the handlers map to 404 and 409.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state for this operation")
)

// PriceSource is the read contract the market service needs from the
// pricefeed. It never fails; unavailability is absorbed upstream.
type PriceSource interface {
	Snapshot(ctx context.Context) pricefeed.Snapshot
}

// MarketService owns the market/bet lifecycle: demo seeding, lazy closing,
// bet placement and atomic resolution with payout settlement.
type MarketService struct {
	db     *gorm.DB
	prices PriceSource
	rules  *RuleRegistry
	seeds  []config.MarketSeed
	now    func() time.Time
}

// NewMarketService wires the lifecycle manager. Settlement rules for the
// seed markets are registered immediately so markets persisted by an
// earlier run still resolve.
func NewMarketService(db *gorm.DB, prices PriceSource, rules *RuleRegistry, seeds []config.MarketSeed) *MarketService {
	for _, seed := range seeds {
		if err := rules.RegisterSpec(seed.ID, seed.Rule); err != nil {
			log.Warn().Err(err).Str("market", seed.ID).Msg("skipping invalid seed rule")
		}
	}

	return &MarketService{
		db:     db,
		prices: prices,
		rules:  rules,
		seeds:  seeds,
		now:    time.Now,
	}
}

// ListMarkets seeds the demo markets when the store is empty, closes any
// open market whose deadline passed, and returns all markets ordered by
// ascending deadline.
func (s *MarketService) ListMarkets(ctx context.Context) ([]models.Market, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Market{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.seedDemoMarkets(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.CloseExpired(ctx); err != nil {
		return nil, err
	}

	var markets []models.Market
	if err := s.db.WithContext(ctx).Order("deadline asc").Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

// GetMarket fetches a market by id.
func (s *MarketService) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	var market models.Market
	if err := s.db.WithContext(ctx).First(&market, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &market, nil
}

// PlaceBet inserts a pending bet against an open market. A market whose
// deadline has passed counts as non-open even before the lazy close has
// persisted the transition.
func (s *MarketService) PlaceBet(ctx context.Context, marketID, side string, amount decimal.Decimal, userAddress string) (*models.Bet, error) {
	market, err := s.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	if market.Status != models.MarketStatusOpen || !s.now().Before(market.Deadline) {
		return nil, ErrInvalidState
	}

	bet := models.Bet{
		MarketID:     marketID,
		Side:         side,
		Amount:       amount,
		UserAddress:  userAddress,
		Status:       models.BetStatusPending,
		PayoutAmount: decimal.Zero,
	}

	if err := s.db.WithContext(ctx).Create(&bet).Error; err != nil {
		return nil, err
	}

	log.Info().Str("market", marketID).Str("side", side).
		Str("amount", amount.String()).Str("user", userAddress).
		Msg("bet placed")

	return &bet, nil
}

// ResolveMarket closes a past-deadline market, computes its outcome from
// the registered settlement rule and the current price, and settles every
// bet. The market update and all bet updates commit in one transaction;
// resolving an already-resolved market is a no-op.
func (s *MarketService) ResolveMarket(ctx context.Context, id string) (*models.Market, error) {
	market, err := s.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}
	if market.Status == models.MarketStatusResolved {
		return market, nil
	}
	if s.now().Before(market.Deadline) {
		return nil, ErrInvalidState
	}

	snap := s.prices.Snapshot(ctx)
	outcome := s.rules.Outcome(id, market.BasePrice, snap.CurrentPrice)

	var resolved models.Market
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Market{})
		// Row-level exclusivity keeps concurrent resolve calls from
		// double-settling. SQLite (tests) has no FOR UPDATE; its writes
		// serialize on the database lock instead.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var m models.Market
		if err := query.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Lost the race to another resolver: keep its result.
		if m.Status == models.MarketStatusResolved {
			resolved = m
			return nil
		}

		now := s.now()
		if err := tx.Model(&m).Updates(map[string]interface{}{
			"status":      models.MarketStatusResolved,
			"outcome":     outcome,
			"resolved_at": now,
		}).Error; err != nil {
			return err
		}

		var bets []models.Bet
		if err := tx.Where("market_id = ? AND status = ?", id, models.BetStatusPending).Find(&bets).Error; err != nil {
			return err
		}

		for i := range bets {
			status := models.BetStatusLost
			payout := decimal.Zero
			if bets[i].Side == outcome {
				status = models.BetStatusWon
				payout = bets[i].Amount.Mul(decimal.NewFromInt(2))
			}
			if err := tx.Model(&bets[i]).Updates(map[string]interface{}{
				"status":        status,
				"payout_amount": payout,
			}).Error; err != nil {
				return err
			}
		}

		m.Status = models.MarketStatusResolved
		m.Outcome = outcome
		m.ResolvedAt = &now
		resolved = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("market", id).Str("outcome", resolved.Outcome).
		Str("price", snap.CurrentPrice.String()).
		Msg("market resolved")

	return &resolved, nil
}

// ListBetsByUser returns a user's bets, most recent first.
func (s *MarketService) ListBetsByUser(ctx context.Context, userAddress string) ([]models.Bet, error) {
	var bets []models.Bet
	err := s.db.WithContext(ctx).
		Where("user_address = ?", userAddress).
		Order("created_at desc, id desc").
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	return bets, nil
}

// CloseExpired marks open markets past their deadline as closed. Called
// lazily from ListMarkets and periodically from the closer job.
func (s *MarketService) CloseExpired(ctx context.Context) error {
	result := s.db.WithContext(ctx).Model(&models.Market{}).
		Where("status = ? AND deadline <= ?", models.MarketStatusOpen, s.now()).
		Update("status", models.MarketStatusClosed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("markets", result.RowsAffected).Msg("closed expired markets")
	}
	return nil
}

// seedDemoMarkets creates the configured demo markets with deadlines
// offset from now and a base price captured from a live read.
func (s *MarketService) seedDemoMarkets(ctx context.Context) error {
	snap := s.prices.Snapshot(ctx)
	now := s.now()

	for _, seed := range s.seeds {
		market := models.Market{
			ID:        seed.ID,
			Title:     seed.Title,
			Deadline:  now.Add(time.Duration(seed.DeadlineOffset)),
			Status:    models.MarketStatusOpen,
			BasePrice: snap.CurrentPrice,
		}
		if err := s.db.WithContext(ctx).Create(&market).Error; err != nil {
			return err
		}
	}

	log.Info().Int("markets", len(s.seeds)).
		Str("base_price", snap.CurrentPrice.String()).
		Msg("seeded demo markets")
	return nil
}
