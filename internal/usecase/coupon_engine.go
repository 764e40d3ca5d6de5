package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
)

var oneHundred = decimal.NewFromInt(100)

// ApplyCoupon validates a coupon against an order and returns the discount
// it grants. The discount never exceeds the original amount, so the final
// amount cannot go negative.
func ApplyCoupon(coupon *model.Coupon, originalAmount decimal.Decimal, eventID, categoryID int64, now time.Time) (decimal.Decimal, error) {
	if now.Before(coupon.ValidFrom) {
		return decimal.Zero, &errors.InvalidCouponError{Code: coupon.Code, Reason: "not yet valid"}
	}
	if now.After(coupon.ValidTo) {
		return decimal.Zero, &errors.InvalidCouponError{Code: coupon.Code, Reason: "expired"}
	}
	if coupon.UsageCount >= coupon.UsageLimit {
		return decimal.Zero, &errors.InvalidCouponError{Code: coupon.Code, Reason: "usage limit reached"}
	}
	if !coupon.InScope(eventID, categoryID) {
		return decimal.Zero, &errors.InvalidCouponError{Code: coupon.Code, Reason: "not applicable to this event or category"}
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountTypePercentage:
		discount = originalAmount.Mul(coupon.DiscountValue).Div(oneHundred).Round(2)
	case model.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return decimal.Zero, &errors.InvalidCouponError{Code: coupon.Code, Reason: "unknown discount type"}
	}

	if discount.GreaterThan(originalAmount) {
		discount = originalAmount
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return discount, nil
}
