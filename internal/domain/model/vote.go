package model

import "time"

// Vote is an immutable, append-only fact: a portion of one payment's
// allowance spent on one candidate. Votes are created only by the casting
// service and never mutated or deleted.
type Vote struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID    int64     `gorm:"not null;index" json:"payment_id"`
	CandidateID  int64     `gorm:"not null;index:idx_votes_candidate_category" json:"candidate_id"`
	CategoryID   int64     `gorm:"not null;index:idx_votes_candidate_category" json:"category_id"`
	EventID      int64     `gorm:"not null;index" json:"event_id"`
	VotesApplied int       `gorm:"not null" json:"votes_applied"`
	VoterIP      string    `gorm:"size:45" json:"voter_ip"`
	CastAt       time.Time `gorm:"not null;default:now()" json:"cast_at"`
}

// TableName specifies the table name for GORM
func (Vote) TableName() string {
	return "votes"
}
