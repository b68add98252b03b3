package models

import (
	"time"
)

// LeaderboardEntry tracks a player's prediction accuracy over time.
// Ranking is accuracy descending, ties broken by total predictions.
type LeaderboardEntry struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserAddress      string    `gorm:"size:42;not null;index" json:"user_address"`
	AccuracyScore    float64   `gorm:"not null" json:"accuracy_score"`
	TotalPredictions int       `gorm:"not null;default:0" json:"total_predictions"`
	AvgError         float64   `gorm:"not null" json:"avg_error"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for LeaderboardEntry model
func (LeaderboardEntry) TableName() string {
	return "leaderboard"
}
