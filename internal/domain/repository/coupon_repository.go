package repository

import (
	"context"

	"github.com/itfy/evoting/internal/domain/model"
)

// CouponRepository manages discount coupons. Usage counting happens inside
// PaymentRepository.MarkSuccess, not here.
type CouponRepository interface {
	// GetByCode returns the coupon for a code, or nil when unknown.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// GetByID returns the coupon by primary key, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Coupon, error)

	// Create adds a new coupon.
	Create(ctx context.Context, coupon *model.Coupon) error
}
