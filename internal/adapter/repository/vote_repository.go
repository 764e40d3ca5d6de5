package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// voteRepository implements the VoteRepository interface
type voteRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB, logger *zap.Logger) domainRepo.VoteRepository {
	return &voteRepository{
		db:     db,
		logger: logger,
	}
}

// GetByPayment lists the votes funded by one payment, oldest first
func (r *voteRepository) GetByPayment(ctx context.Context, paymentID int64) ([]model.Vote, error) {
	var votes []model.Vote

	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("cast_at ASC").
		Find(&votes).Error

	if err != nil {
		r.logger.Error("failed to get votes by payment",
			zap.Int64("payment_id", paymentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}

	return votes, nil
}

// TallyByCategory aggregates the standing per candidate for a category
func (r *voteRepository) TallyByCategory(ctx context.Context, categoryID int64) ([]domainRepo.CandidateTally, error) {
	var tallies []domainRepo.CandidateTally

	err := r.db.WithContext(ctx).
		Model(&model.Vote{}).
		Select("candidate_id, SUM(votes_applied) AS total_votes, MIN(cast_at) AS earliest_cast_at").
		Where("category_id = ?", categoryID).
		Group("candidate_id").
		Order("total_votes DESC, earliest_cast_at ASC").
		Scan(&tallies).Error

	if err != nil {
		r.logger.Error("failed to tally votes by category",
			zap.Int64("category_id", categoryID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to tally votes: %w", err)
	}

	return tallies, nil
}
