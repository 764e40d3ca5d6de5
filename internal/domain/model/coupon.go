package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is how a coupon's value is interpreted
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Scan implements sql.Scanner interface
func (d *DiscountType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*d = DiscountType(v)
	case []byte:
		*d = DiscountType(v)
	default:
		*d = DiscountTypeFixed
	}
	return nil
}

// Value implements driver.Valuer interface
func (d DiscountType) Value() (driver.Value, error) {
	return string(d), nil
}

// Coupon is a discount rule applied to an order total. UsageCount increments
// only when a payment carrying the coupon commits its success transition; an
// order that never completes consumes no usage.
type Coupon struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string          `gorm:"unique;not null;size:50" json:"code"`
	DiscountType  DiscountType    `gorm:"type:discount_type;not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"discount_value"`
	ValidFrom     time.Time       `gorm:"not null" json:"valid_from"`
	ValidTo       time.Time       `gorm:"not null" json:"valid_to"`
	UsageLimit    int             `gorm:"not null" json:"usage_limit"`
	UsageCount    int             `gorm:"not null;default:0" json:"usage_count"`
	EventID       *int64          `gorm:"index" json:"event_id,omitempty"`
	CategoryID    *int64          `gorm:"index" json:"category_id,omitempty"`
	CreatedAt     time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// InScope reports whether the coupon applies to the given event and category.
// A nil scope field means unrestricted on that axis.
func (c *Coupon) InScope(eventID, categoryID int64) bool {
	if c.EventID != nil && *c.EventID != eventID {
		return false
	}
	if c.CategoryID != nil && *c.CategoryID != categoryID {
		return false
	}
	return true
}

// CouponRedemption marks that a coupon's usage was counted for one payment.
// The unique payment_id makes webhook replays of the success transition safe:
// the usage increment happens at most once per payment.
type CouponRedemption struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CouponID  int64     `gorm:"not null;index" json:"coupon_id"`
	PaymentID int64     `gorm:"not null;unique" json:"payment_id"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
