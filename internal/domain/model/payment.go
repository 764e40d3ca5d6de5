package model

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusAbandoned PaymentStatus = "abandoned"
	PaymentStatusExpired   PaymentStatus = "expired"
)

// Scan implements sql.Scanner interface
func (s *PaymentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		*s = PaymentStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// IsTerminal reports whether the status admits no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusAbandoned || s == PaymentStatusExpired
}

// PendingWindow is how long a pending payment stays confirmable.
const PendingWindow = 15 * time.Minute

// Payment is the aggregate root of the vote ledger. It tracks an order from
// checkout to a terminal state and is the single source of truth for how many
// purchased votes remain unspent.
type Payment struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference            string          `gorm:"unique;not null;size:100;index" json:"reference"`
	VoterEmail           string          `gorm:"not null;size:255;index:idx_payments_voter_scope" json:"voter_email"`
	VoterIP              string          `gorm:"size:45" json:"voter_ip"`
	VoterContact         *string         `gorm:"size:50" json:"voter_contact,omitempty"`
	EventID              int64           `gorm:"not null;index:idx_payments_voter_scope" json:"event_id"`
	CategoryID           int64           `gorm:"not null;index:idx_payments_voter_scope" json:"category_id"`
	CouponID             *int64          `gorm:"index" json:"coupon_id,omitempty"`
	OriginalAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"original_amount"`
	DiscountAmount       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"discount_amount"`
	FinalAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"final_amount"`
	Currency             string          `gorm:"size:3;default:'NGN'" json:"currency"`
	Status               PaymentStatus   `gorm:"type:payment_status;not null;default:'pending';index" json:"status"`
	VotesGranted         int             `gorm:"not null" json:"votes_granted"`
	VotesCast            int             `gorm:"not null;default:0" json:"votes_cast"`
	Channel              *string         `gorm:"size:50" json:"channel,omitempty"`
	ExpiresAt            time.Time       `gorm:"not null;index" json:"expires_at"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	FailureReason        *string         `json:"failure_reason,omitempty"`
	WebhookVerified      bool            `gorm:"default:false" json:"webhook_verified"`
	VerificationAttempts int             `gorm:"default:0" json:"verification_attempts"`
	CreatedAt            time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"default:now()" json:"updated_at"`

	// Relations
	Coupon  *Coupon      `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
	Bundles []VoteBundle `gorm:"many2many:payment_bundles" json:"bundles,omitempty"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// VotesRemaining is derived, never stored as independently writable truth.
func (p *Payment) VotesRemaining() int {
	return p.VotesGranted - p.VotesCast
}

// IsExpired reports whether the pending window has lapsed. An expired pending
// payment is never eligible for confirmation or vote casting, even before its
// status row is physically updated.
func (p *Payment) IsExpired(now time.Time) bool {
	return p.Status == PaymentStatusPending && now.After(p.ExpiresAt)
}
