package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoteBundle is a purchasable offer: a fixed number of votes for a fixed
// price within one category. Bundles are immutable once referenced by a
// payment; administrators create and retire them, nothing mutates them.
type VoteBundle struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID   int64           `gorm:"not null;index" json:"category_id"`
	Name         string          `gorm:"not null;size:100" json:"name"`
	VotesGranted int             `gorm:"not null" json:"votes_granted"`
	Price        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	Currency     string          `gorm:"size:3;default:'NGN'" json:"currency"`
	Active       bool            `gorm:"not null;default:true;index" json:"active"`
	CreatedAt    time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (VoteBundle) TableName() string {
	return "vote_bundles"
}
