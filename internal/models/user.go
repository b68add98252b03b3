package models

import (
	"time"
)

// User represents a registered player, keyed by wallet address.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserAddress string    `gorm:"size:42;uniqueIndex;not null" json:"user_address"`
	Nickname    string    `gorm:"size:50" json:"nickname,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
