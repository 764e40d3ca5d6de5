package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

// CatalogService manages the purchasable side of the platform: vote bundles
// and discount coupons.
type CatalogService struct {
	bundleRepo   repository.BundleRepository
	couponRepo   repository.CouponRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	bundleRepo repository.BundleRepository,
	couponRepo repository.CouponRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		bundleRepo:   bundleRepo,
		couponRepo:   couponRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ListBundles returns the purchasable bundles of a category.
func (s *CatalogService) ListBundles(ctx context.Context, categoryID int64) ([]model.VoteBundle, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &errors.NotFoundError{Entity: "category", ID: categoryID}
	}
	return s.bundleRepo.ListActiveByCategory(ctx, categoryID)
}

// CreateBundle adds a bundle to a category's catalog.
func (s *CatalogService) CreateBundle(ctx context.Context, bundle *model.VoteBundle) error {
	category, err := s.categoryRepo.GetByID(ctx, bundle.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return &errors.NotFoundError{Entity: "category", ID: bundle.CategoryID}
	}
	if bundle.VotesGranted < 1 {
		return fmt.Errorf("bundle must grant at least one vote")
	}
	if !bundle.Price.IsPositive() {
		return fmt.Errorf("bundle price must be positive")
	}

	bundle.Active = true
	return s.bundleRepo.Create(ctx, bundle)
}

// RetireBundle takes a bundle off sale. Payments referencing it are
// untouched.
func (s *CatalogService) RetireBundle(ctx context.Context, id int64) error {
	return s.bundleRepo.Retire(ctx, id)
}

// CreateCoupon adds a discount coupon.
func (s *CatalogService) CreateCoupon(ctx context.Context, coupon *model.Coupon) error {
	if coupon.ValidTo.Before(coupon.ValidFrom) {
		return fmt.Errorf("coupon validity window is inverted")
	}
	if coupon.UsageLimit < 1 {
		return fmt.Errorf("coupon usage limit must be at least 1")
	}
	if !coupon.DiscountValue.IsPositive() {
		return fmt.Errorf("coupon discount value must be positive")
	}
	if coupon.DiscountType == model.DiscountTypePercentage && coupon.DiscountValue.GreaterThan(oneHundred) {
		return fmt.Errorf("percentage discount cannot exceed 100")
	}

	existing, err := s.couponRepo.GetByCode(ctx, coupon.Code)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("coupon code %q already exists", coupon.Code)
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return err
	}

	s.logger.Info("coupon created",
		zap.String("code", coupon.Code),
		zap.String("type", string(coupon.DiscountType)),
		zap.String("value", coupon.DiscountValue.String()))
	return nil
}
