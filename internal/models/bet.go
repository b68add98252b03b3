package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet status lifecycle: pending -> won|lost at market resolution.
// Refunded is reserved for future cancellation rules and is never
// produced by the current settlement logic.
const (
	BetStatusPending  = "pending"
	BetStatusWon      = "won"
	BetStatusLost     = "lost"
	BetStatusRefunded = "refunded"
)

// Bet is a wager of an amount on one side of a market by an address.
type Bet struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	MarketID     string          `gorm:"size:100;not null;index" json:"market_id"`
	Side         string          `gorm:"size:10;not null" json:"side"` // YES or NO
	Amount       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	UserAddress  string          `gorm:"size:42;not null;index" json:"user_address"`
	Status       string          `gorm:"size:20;default:pending;index" json:"status"`
	PayoutAmount decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"payout_amount"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TableName specifies the table name for Bet model
func (Bet) TableName() string {
	return "bets"
}
