package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainErrors "github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateOrder persists a pending payment and its bundle references in one
// transaction. The open-order partial unique index closes the race between
// two simultaneous checkouts for the same voter scope.
func (r *paymentRepository) CreateOrder(ctx context.Context, payment *model.Payment, bundleIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Bundles", "Coupon").Create(payment).Error; err != nil {
			return err
		}

		for _, bundleID := range bundleIDs {
			join := map[string]interface{}{
				"payment_id":     payment.ID,
				"vote_bundle_id": bundleID,
			}
			if err := tx.Table("payment_bundles").Create(join).Error; err != nil {
				return fmt.Errorf("failed to link bundle %d: %w", bundleID, err)
			}
		}

		return nil
	})

	if err != nil {
		if strings.Contains(err.Error(), "idx_payments_open_order") ||
			strings.Contains(err.Error(), "duplicate key value") {
			return domainErrors.NewDuplicateOrderError(payment.VoterEmail, payment.EventID, payment.CategoryID)
		}
		r.logger.Error("failed to create order",
			zap.String("reference", payment.Reference),
			zap.String("voter_email", payment.VoterEmail),
			zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByReference returns the payment for a gateway reference, or nil
func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).
		Preload("Bundles").
		Where("reference = ?", reference).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get payment by reference",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// GetByID returns the payment by primary key, or nil
func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get payment by id",
			zap.Int64("payment_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// MarkSuccess transitions pending → success and settles coupon usage in the
// same transaction. The status predicate makes the transition a
// compare-and-swap: a delivery that lost the race sees applied=false.
func (r *paymentRepository) MarkSuccess(ctx context.Context, paymentID int64, paidAt time.Time, channel string) (bool, error) {
	applied := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Payment{}).
			Where("id = ? AND status = ?", paymentID, model.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":           model.PaymentStatusSuccess,
				"paid_at":          paidAt,
				"channel":          channel,
				"webhook_verified": true,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update payment status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		// Coupon usage counts exactly once per successful payment; the
		// unique redemption marker keeps replays from double-counting.
		var payment model.Payment
		if err := tx.Select("id", "coupon_id").First(&payment, paymentID).Error; err != nil {
			return fmt.Errorf("failed to reload payment: %w", err)
		}
		if payment.CouponID == nil {
			return nil
		}

		redemption := &model.CouponRedemption{
			CouponID:  *payment.CouponID,
			PaymentID: payment.ID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(redemption)
		if res.Error != nil {
			return fmt.Errorf("failed to record coupon redemption: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&model.Coupon{}).
			Where("id = ?", *payment.CouponID).
			Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment coupon usage: %w", err)
		}

		return nil
	})

	if err != nil {
		r.logger.Error("failed to mark payment success",
			zap.Int64("payment_id", paymentID),
			zap.Error(err))
		return false, err
	}

	return applied, nil
}

// MarkFailed transitions pending → failed
func (r *paymentRepository) MarkFailed(ctx context.Context, paymentID int64, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":           model.PaymentStatusFailed,
			"failure_reason":   reason,
			"webhook_verified": true,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to mark payment failed",
			zap.Int64("payment_id", paymentID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to mark payment failed: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// MarkExpired transitions pending → expired
func (r *paymentRepository) MarkExpired(ctx context.Context, paymentID int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":     model.PaymentStatusExpired,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to mark payment expired",
			zap.Int64("payment_id", paymentID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to mark payment expired: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ReapExpired sweeps all overdue pending payments in one conditional update.
// Already-terminal rows never match the predicate, so any number of
// concurrent sweeps settle on the same outcome.
func (r *paymentRepository) ReapExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ? AND expires_at < ?", model.PaymentStatusPending, now).
		Updates(map[string]interface{}{
			"status":     model.PaymentStatusExpired,
			"updated_at": now,
		})

	if result.Error != nil {
		r.logger.Error("failed to reap expired payments", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to reap expired payments: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// IncrementVerificationAttempts bumps webhook telemetry on the payment
func (r *paymentRepository) IncrementVerificationAttempts(ctx context.Context, paymentID int64) error {
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Update("verification_attempts", gorm.Expr("verification_attempts + 1")).Error

	if err != nil {
		r.logger.Error("failed to increment verification attempts",
			zap.Int64("payment_id", paymentID),
			zap.Error(err))
		return fmt.Errorf("failed to increment verification attempts: %w", err)
	}

	return nil
}

// SpendVotes spends allowance under a row lock. The remaining-allowance and
// status checks run against the locked row, so two concurrent casts whose
// combined total exceeds the allowance serialize into one success and one
// InsufficientVotes rejection.
func (r *paymentRepository) SpendVotes(ctx context.Context, paymentID, candidateID int64, votes int, voterIP string, rules domainRepo.CastRules, now time.Time) (*model.Payment, *model.Vote, error) {
	var payment model.Payment
	var vote *model.Vote

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, paymentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &domainErrors.PaymentNotFoundError{Reference: fmt.Sprintf("id %d", paymentID)}
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}

		if payment.Status != model.PaymentStatusSuccess {
			return &domainErrors.PaymentNotSuccessfulError{Status: payment.Status}
		}
		if payment.VotesRemaining() < votes {
			return domainErrors.NewInsufficientVotesError(votes, payment.VotesRemaining())
		}

		if !rules.AllowMultiple {
			var funded int64
			err := tx.Model(&model.Vote{}).
				Where("payment_id = ? AND candidate_id <> ?", paymentID, candidateID).
				Distinct("candidate_id").
				Count(&funded).Error
			if err != nil {
				return fmt.Errorf("failed to count funded candidates: %w", err)
			}
			if funded > 0 {
				return &domainErrors.MultipleVotingNotAllowedError{
					CategoryID:       payment.CategoryID,
					FundedCandidates: int(funded),
				}
			}
		}

		vote = &model.Vote{
			PaymentID:    payment.ID,
			CandidateID:  candidateID,
			CategoryID:   payment.CategoryID,
			EventID:      payment.EventID,
			VotesApplied: votes,
			VoterIP:      voterIP,
			CastAt:       now,
		}
		if err := tx.Create(vote).Error; err != nil {
			return fmt.Errorf("failed to create vote: %w", err)
		}

		payment.VotesCast += votes
		if err := tx.Model(&model.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"votes_cast": payment.VotesCast,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to update votes cast: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	r.logger.Info("votes spent",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("candidate_id", candidateID),
		zap.Int("votes_applied", votes),
		zap.Int("votes_remaining", payment.VotesRemaining()))

	return &payment, vote, nil
}
