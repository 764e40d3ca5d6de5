package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// categoryRepository implements the CategoryRepository interface
type categoryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CategoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID returns the category, or nil
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category

	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get category", zap.Int64("category_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

// ListByEvent returns an event's categories
func (r *categoryRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Category, error) {
	var categories []model.Category

	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name ASC").
		Find(&categories).Error

	if err != nil {
		r.logger.Error("failed to list categories", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Create adds a new category in draft status
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		r.logger.Error("failed to create category", zap.String("name", category.Name), zap.Error(err))
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// AdvanceStatus moves the category's status with a compare-and-swap on the
// expected current status, so date-driven and admin-driven advances never
// clobber each other.
func (r *categoryRepository) AdvanceStatus(ctx context.Context, id int64, from, to model.CategoryStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to advance category status",
			zap.Int64("category_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to advance category status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}
