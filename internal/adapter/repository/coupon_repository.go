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

// couponRepository implements the CouponRepository interface
type couponRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CouponRepository {
	return &couponRepository{
		db:     db,
		logger: logger,
	}
}

// GetByCode returns the coupon for a code, or nil
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon

	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get coupon by code", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

// GetByID returns the coupon by primary key, or nil
func (r *couponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	var coupon model.Coupon

	err := r.db.WithContext(ctx).First(&coupon, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get coupon by id", zap.Int64("coupon_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

// Create adds a new coupon
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		r.logger.Error("failed to create coupon", zap.String("code", coupon.Code), zap.Error(err))
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}
