package services

import (
	"context"
	"testing"
	"time"

	"prediction-arena/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLeaderboardDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&models.LeaderboardEntry{}))
	return db
}

func TestTopSeedsEmptyStore(t *testing.T) {
	db := setupLeaderboardDB(t)
	svc := NewLeaderboardService(db)

	rows, err := svc.Top(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "0x74232704659A37D66D6a334eF3E087eF6c139414", rows[0].UserAddress)
	assert.InDelta(t, 0.95, rows[0].AccuracyScore, 1e-9)
	assert.InDelta(t, 0.85, rows[1].AccuracyScore, 1e-9)
	assert.InDelta(t, 0.75, rows[2].AccuracyScore, 1e-9)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
		assert.GreaterOrEqual(t, row.TotalPredictions, 5)
		assert.LessOrEqual(t, row.TotalPredictions, 30)
	}
}

func TestTopSeedsOnlyOnce(t *testing.T) {
	db := setupLeaderboardDB(t)
	svc := NewLeaderboardService(db)

	_, err := svc.Top(context.Background())
	require.NoError(t, err)
	rows, err := svc.Top(context.Background())
	require.NoError(t, err)

	assert.Len(t, rows, 3)
}

func TestTopRanksByAccuracyThenVolume(t *testing.T) {
	db := setupLeaderboardDB(t)

	entries := []models.LeaderboardEntry{
		{UserAddress: "0x1", AccuracyScore: 0.80, TotalPredictions: 10, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{UserAddress: "0x2", AccuracyScore: 0.90, TotalPredictions: 5, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		{UserAddress: "0x3", AccuracyScore: 0.80, TotalPredictions: 20, CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	rows, err := NewLeaderboardService(db).Top(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "0x2", rows[0].UserAddress)
	assert.Equal(t, "0x3", rows[1].UserAddress) // tie broken by prediction count
	assert.Equal(t, "0x1", rows[2].UserAddress)
}
