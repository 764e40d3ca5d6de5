package repository

import (
	"context"
	"time"

	"github.com/itfy/evoting/internal/domain/model"
)

// CandidateTally is one candidate's aggregated standing within a category.
// EarliestCastAt backs the timestamp tie-break.
type CandidateTally struct {
	CandidateID    int64     `json:"candidate_id"`
	TotalVotes     int64     `json:"total_votes"`
	EarliestCastAt time.Time `json:"earliest_cast_at"`
}

// VoteRepository reads the append-only vote ledger. Votes are only ever
// written through PaymentRepository.SpendVotes.
type VoteRepository interface {
	// GetByPayment lists the votes funded by one payment, oldest first.
	GetByPayment(ctx context.Context, paymentID int64) ([]model.Vote, error)

	// TallyByCategory sums votes_applied per candidate for a category,
	// ordered by total descending then earliest cast ascending.
	TallyByCategory(ctx context.Context, categoryID int64) ([]CandidateTally, error)
}
