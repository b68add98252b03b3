package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Market status lifecycle: open -> closed -> resolved. Resolved is terminal.
const (
	MarketStatusOpen     = "open"
	MarketStatusClosed   = "closed"
	MarketStatusResolved = "resolved"
)

// Outcome values. Empty until the market is resolved.
const (
	OutcomeYes = "YES"
	OutcomeNo  = "NO"
)

// Market is a binary proposition with a deadline and an eventual YES/NO outcome.
type Market struct {
	ID         string          `gorm:"primaryKey;size:100" json:"id"`
	Title      string          `gorm:"size:500;not null" json:"title"`
	Deadline   time.Time       `gorm:"not null;index" json:"deadline"`
	Status     string          `gorm:"size:20;default:open;index" json:"status"`
	Outcome    string          `gorm:"size:10" json:"outcome,omitempty"`
	BasePrice  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"base_price"`
	CreatedAt  time.Time       `json:"created_at"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
}

// TableName specifies the table name for Market model
func (Market) TableName() string {
	return "markets"
}
