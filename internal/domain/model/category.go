package model

import (
	"database/sql/driver"
	"time"
)

// CategoryStatus represents where a category sits in the voting lifecycle
type CategoryStatus string

const (
	CategoryStatusDraft        CategoryStatus = "draft"
	CategoryStatusActive       CategoryStatus = "active"
	CategoryStatusVotingOpen   CategoryStatus = "voting_open"
	CategoryStatusVotingClosed CategoryStatus = "voting_closed"
	CategoryStatusCompleted    CategoryStatus = "completed"
)

// Scan implements sql.Scanner interface
func (s *CategoryStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = CategoryStatus(v)
	case []byte:
		*s = CategoryStatus(v)
	default:
		*s = CategoryStatusDraft
	}
	return nil
}

// Value implements driver.Valuer interface
func (s CategoryStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// TieBreakMethod selects a single winner when top totals are equal
type TieBreakMethod string

const (
	TieBreakTimestamp TieBreakMethod = "timestamp"
	TieBreakRandom    TieBreakMethod = "random"
	TieBreakManual    TieBreakMethod = "manual"
)

// Scan implements sql.Scanner interface
func (t *TieBreakMethod) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = TieBreakMethod(v)
	case []byte:
		*t = TieBreakMethod(v)
	default:
		*t = TieBreakTimestamp
	}
	return nil
}

// Value implements driver.Valuer interface
func (t TieBreakMethod) Value() (driver.Value, error) {
	return string(t), nil
}

// Category groups candidates within an event and carries the rules under
// which votes may be cast and winners resolved.
type Category struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID         int64          `gorm:"not null;index" json:"event_id"`
	Name            string         `gorm:"not null;size:100" json:"name"`
	Description     string         `json:"description"`
	ThumbnailURI    string         `gorm:"size:255" json:"thumbnail_uri"`
	Status          CategoryStatus `gorm:"type:category_status;not null;default:'draft';index" json:"status"`
	MinVotes        int            `gorm:"not null;default:1" json:"min_votes"`
	MaxVotes        int            `gorm:"not null;default:0" json:"max_votes"`
	AllowMultiple   bool           `gorm:"not null;default:true" json:"allow_multiple"`
	VotingStartDate time.Time      `json:"voting_start_date"`
	VotingEndDate   time.Time      `json:"voting_end_date"`
	AllowTie        bool           `gorm:"not null;default:false" json:"allow_tie"`
	TieBreakMethod  TieBreakMethod `gorm:"type:tie_break_method;not null;default:'timestamp'" json:"tie_break_method"`
	CreatedAt       time.Time      `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// VotingOpenAt reports whether votes may be cast at the given instant:
// status must be voting_open and the instant inside the configured window.
func (c *Category) VotingOpenAt(now time.Time) bool {
	if c.Status != CategoryStatusVotingOpen {
		return false
	}
	if now.Before(c.VotingStartDate) || now.After(c.VotingEndDate) {
		return false
	}
	return true
}
