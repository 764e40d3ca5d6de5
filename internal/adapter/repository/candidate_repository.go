package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// candidateRepository implements the CandidateRepository interface
type candidateRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CandidateRepository {
	return &candidateRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID returns the candidate, or nil
func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*model.Candidate, error) {
	var candidate model.Candidate

	err := r.db.WithContext(ctx).First(&candidate, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get candidate", zap.Int64("candidate_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}

	return &candidate, nil
}

// Create persists a candidate and its nominations in one transaction
func (r *candidateRepository) Create(ctx context.Context, candidate *model.Candidate, categoryIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(candidate).Error; err != nil {
			return fmt.Errorf("failed to create candidate: %w", err)
		}

		for _, categoryID := range categoryIDs {
			nomination := &model.Nomination{
				CandidateID: candidate.ID,
				CategoryID:  categoryID,
				EventID:     candidate.EventID,
			}
			if err := tx.Create(nomination).Error; err != nil {
				return fmt.Errorf("failed to nominate candidate into category %d: %w", categoryID, err)
			}
		}

		return nil
	})

	if err != nil {
		r.logger.Error("failed to create candidate",
			zap.String("name", candidate.Name),
			zap.Error(err))
		return err
	}

	return nil
}

// IsNominated reports whether the candidate is nominated in a category
func (r *candidateRepository) IsNominated(ctx context.Context, candidateID, categoryID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&model.Nomination{}).
		Where("candidate_id = ? AND category_id = ?", candidateID, categoryID).
		Count(&count).Error

	if err != nil {
		r.logger.Error("failed to check nomination",
			zap.Int64("candidate_id", candidateID),
			zap.Int64("category_id", categoryID),
			zap.Error(err))
		return false, fmt.Errorf("failed to check nomination: %w", err)
	}

	return count > 0, nil
}
