package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// bundleRepository implements the BundleRepository interface
type bundleRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBundleRepository creates a new bundle repository
func NewBundleRepository(db *gorm.DB, logger *zap.Logger) domainRepo.BundleRepository {
	return &bundleRepository{
		db:     db,
		logger: logger,
	}
}

// GetByIDs returns the bundles for the given ids
func (r *bundleRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.VoteBundle, error) {
	var bundles []model.VoteBundle

	if len(ids) == 0 {
		return bundles, nil
	}

	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&bundles).Error

	if err != nil {
		r.logger.Error("failed to get bundles", zap.Int64s("bundle_ids", ids), zap.Error(err))
		return nil, fmt.Errorf("failed to get bundles: %w", err)
	}

	return bundles, nil
}

// ListActiveByCategory returns the purchasable bundles of a category
func (r *bundleRepository) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.VoteBundle, error) {
	var bundles []model.VoteBundle

	err := r.db.WithContext(ctx).
		Where("category_id = ? AND active = ?", categoryID, true).
		Order("price ASC").
		Find(&bundles).Error

	if err != nil {
		r.logger.Error("failed to list active bundles",
			zap.Int64("category_id", categoryID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}

	return bundles, nil
}

// Create adds a new bundle to the catalog
func (r *bundleRepository) Create(ctx context.Context, bundle *model.VoteBundle) error {
	if err := r.db.WithContext(ctx).Create(bundle).Error; err != nil {
		r.logger.Error("failed to create bundle",
			zap.String("name", bundle.Name),
			zap.Error(err))
		return fmt.Errorf("failed to create bundle: %w", err)
	}
	return nil
}

// Retire deactivates a bundle
func (r *bundleRepository) Retire(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&model.VoteBundle{}).
		Where("id = ?", id).
		Update("active", false)

	if result.Error != nil {
		r.logger.Error("failed to retire bundle", zap.Int64("bundle_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to retire bundle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("bundle not found: %d", id)
	}

	return nil
}
