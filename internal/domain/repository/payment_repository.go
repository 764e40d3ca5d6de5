package repository

import (
	"context"
	"time"

	"github.com/itfy/evoting/internal/domain/model"
)

// CastRules carries the category rules that must hold inside the spending
// transaction, where they race with concurrent casts.
type CastRules struct {
	AllowMultiple bool
}

// PaymentRepository defines storage operations for the payment aggregate.
// Status transitions are compare-and-swap on the pending state; a transition
// that loses the race reports applied=false rather than failing.
type PaymentRepository interface {
	// CreateOrder persists a new pending payment together with its bundle
	// references in one transaction. A unique-violation on the open-order
	// index surfaces as *errors.DuplicateOrderError.
	CreateOrder(ctx context.Context, payment *model.Payment, bundleIDs []int64) error

	// GetByReference returns the payment for a gateway reference, or nil
	// when no such payment exists.
	GetByReference(ctx context.Context, reference string) (*model.Payment, error)

	// GetByID returns the payment by primary key, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Payment, error)

	// MarkSuccess transitions pending → success. When the payment carries a
	// coupon, the coupon's usage count is incremented in the same
	// transaction, guarded by a per-payment redemption marker so replays
	// never double-count. Returns applied=false if the payment was no
	// longer pending.
	MarkSuccess(ctx context.Context, paymentID int64, paidAt time.Time, channel string) (applied bool, err error)

	// MarkFailed transitions pending → failed with the gateway's reason.
	MarkFailed(ctx context.Context, paymentID int64, reason string) (applied bool, err error)

	// MarkExpired transitions pending → expired.
	MarkExpired(ctx context.Context, paymentID int64) (applied bool, err error)

	// ReapExpired transitions every pending payment whose expiry has passed
	// to expired and returns how many rows changed. Idempotent and safe to
	// run concurrently from any number of workers.
	ReapExpired(ctx context.Context, now time.Time) (int64, error)

	// IncrementVerificationAttempts bumps the webhook telemetry counter.
	IncrementVerificationAttempts(ctx context.Context, paymentID int64) error

	// SpendVotes atomically spends part of a payment's allowance on a
	// candidate: it locks the payment row, re-checks status and remaining
	// allowance under the lock, appends the vote record, and increments
	// votes_cast, all in one transaction. Violations surface as
	// *errors.PaymentNotSuccessfulError, *errors.InsufficientVotesError or
	// *errors.MultipleVotingNotAllowedError.
	SpendVotes(ctx context.Context, paymentID, candidateID int64, votes int, voterIP string, rules CastRules, now time.Time) (*model.Payment, *model.Vote, error)
}
