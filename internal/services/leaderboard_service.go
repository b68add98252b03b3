package services

import (
	"context"
	"math/rand"
	"time"

	"prediction-arena/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const leaderboardLimit = 50

// LeaderboardRow is one ranked entry as served to clients.
type LeaderboardRow struct {
	Rank             int     `json:"rank"`
	UserAddress      string  `json:"user_address"`
	AccuracyScore    float64 `json:"accuracy_score"`
	TotalPredictions int     `json:"total_predictions"`
	AvgError         float64 `json:"avg_error"`
}

// LeaderboardService serves the ranked accuracy table, seeding fixed demo
// rows on first read of an empty store.
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// Top returns up to 50 entries ranked by accuracy descending, ties broken
// by total prediction count descending.
func (s *LeaderboardService) Top(ctx context.Context) ([]LeaderboardRow, error) {
	entries, err := s.query(ctx)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		if err := s.seed(ctx); err != nil {
			return nil, err
		}
		if entries, err = s.query(ctx); err != nil {
			return nil, err
		}
	}

	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{
			Rank:             i + 1,
			UserAddress:      e.UserAddress,
			AccuracyScore:    e.AccuracyScore,
			TotalPredictions: e.TotalPredictions,
			AvgError:         e.AvgError,
		}
	}
	return rows, nil
}

func (s *LeaderboardService) query(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := s.db.WithContext(ctx).
		Order("accuracy_score desc").
		Order("total_predictions desc").
		Limit(leaderboardLimit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// seed inserts the demo rows. Accuracy steps down per row so the seeded
// ranking is stable; prediction counts are cosmetic.
func (s *LeaderboardService) seed(ctx context.Context) error {
	addresses := []string{
		"0x74232704659A37D66D6a334eF3E087eF6c139414",
		"0x8ba1f109551bD432803012645Ac136ddd64DBA72",
		"0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
	}

	for i, addr := range addresses {
		entry := models.LeaderboardEntry{
			UserAddress:      addr,
			AccuracyScore:    0.95 - float64(i)*0.1,
			TotalPredictions: 5 + rand.Intn(26),
			AvgError:         100 + float64(i+1)*20,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return err
		}
	}

	log.Info().Int("entries", len(addresses)).Msg("seeded demo leaderboard")
	return nil
}
