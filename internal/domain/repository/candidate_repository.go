package repository

import (
	"context"

	"github.com/itfy/evoting/internal/domain/model"
)

// CandidateRepository manages candidates and their category nominations.
type CandidateRepository interface {
	// GetByID returns the candidate, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Candidate, error)

	// Create persists a candidate and its nominations in one transaction.
	Create(ctx context.Context, candidate *model.Candidate, categoryIDs []int64) error

	// IsNominated reports whether the candidate is nominated in a category.
	IsNominated(ctx context.Context, candidateID, categoryID int64) (bool, error)
}
