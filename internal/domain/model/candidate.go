package model

import "time"

// Candidate is a contestant within an event. The voting code is a short
// human-enterable identifier generated at creation time and reserved for
// uniqueness in the cache layer.
type Candidate struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    int64     `gorm:"not null;index" json:"event_id"`
	Name       string    `gorm:"not null;size:100" json:"name"`
	VotingCode string    `gorm:"unique;not null;size:20" json:"voting_code"`
	CreatedAt  time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Candidate) TableName() string {
	return "candidates"
}

// Nomination places a candidate into a category of an event. Vote casting
// requires a nomination linking the candidate to the payment's category.
type Nomination struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID int64     `gorm:"not null;uniqueIndex:idx_nominations_candidate_category" json:"candidate_id"`
	CategoryID  int64     `gorm:"not null;uniqueIndex:idx_nominations_candidate_category" json:"category_id"`
	EventID     int64     `gorm:"not null;index" json:"event_id"`
	CreatedAt   time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Nomination) TableName() string {
	return "nominations"
}
