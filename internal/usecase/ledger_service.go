package usecase

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

// LedgerService applies asynchronous gateway notifications to the payment
// ledger. All transitions are idempotent: a replayed delivery or a lost
// compare-and-swap acknowledges without changing state.
type LedgerService struct {
	paymentRepo repository.PaymentRepository
	webhookRepo repository.WebhookRepository
	publisher   Publisher
	clock       Clock
	logger      *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	paymentRepo repository.PaymentRepository,
	webhookRepo repository.WebhookRepository,
	publisher Publisher,
	clock Clock,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		paymentRepo: paymentRepo,
		webhookRepo: webhookRepo,
		publisher:   publisher,
		clock:       clock,
		logger:      logger,
	}
}

// ProcessNotification records a webhook delivery and applies it to the
// payment it references. A delivery that already completed is acknowledged
// without touching the payment; one that was stored but never completed is
// applied again on redelivery, which the compare-and-swap transitions keep
// harmless.
func (s *LedgerService) ProcessNotification(ctx context.Context, eventID, eventType string, notif gateway.ChargeNotification, raw json.RawMessage) error {
	created, err := s.webhookRepo.SaveEvent(ctx, eventID, eventType, notif.Reference, raw)
	if err != nil {
		return err
	}
	if !created {
		stored, err := s.webhookRepo.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if stored == nil || stored.Status == model.WebhookStatusCompleted {
			s.logger.Info("webhook replay ignored",
				zap.String("event_id", eventID),
				zap.String("reference", notif.Reference))
			return nil
		}
		s.logger.Info("reprocessing stored webhook delivery",
			zap.String("event_id", eventID),
			zap.String("status", string(stored.Status)))
	}

	if err := s.applyNotification(ctx, eventType, notif); err != nil {
		if markErr := s.webhookRepo.MarkFailed(ctx, eventID, err); markErr != nil {
			s.logger.Error("failed to record webhook failure",
				zap.String("event_id", eventID),
				zap.Error(markErr))
		}
		return err
	}

	return s.webhookRepo.MarkProcessed(ctx, eventID)
}

func (s *LedgerService) applyNotification(ctx context.Context, eventType string, notif gateway.ChargeNotification) error {
	payment, err := s.paymentRepo.GetByReference(ctx, notif.Reference)
	if err != nil {
		return err
	}
	if payment == nil {
		return &errors.PaymentNotFoundError{Reference: notif.Reference}
	}

	if err := s.paymentRepo.IncrementVerificationAttempts(ctx, payment.ID); err != nil {
		s.logger.Warn("failed to bump verification attempts",
			zap.String("reference", payment.Reference),
			zap.Error(err))
	}

	switch eventType {
	case "charge.success":
		return s.confirmSuccess(ctx, payment.ID, notif)
	default:
		return s.confirmFailure(ctx, payment.ID, notif)
	}
}

func (s *LedgerService) confirmSuccess(ctx context.Context, paymentID int64, notif gateway.ChargeNotification) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	// A success already applied is an idempotent replay, not a conflict.
	if payment.Status == model.PaymentStatusSuccess {
		return nil
	}
	if payment.Status.IsTerminal() {
		return &errors.PaymentAlreadyTerminalError{Reference: payment.Reference, Status: payment.Status}
	}

	now := s.clock.Now()
	if payment.IsExpired(now) {
		if _, err := s.paymentRepo.MarkExpired(ctx, payment.ID); err != nil {
			return err
		}
		return &errors.PaymentExpiredError{Reference: payment.Reference}
	}

	if !notif.Amount.Equal(payment.FinalAmount) {
		s.logger.Warn("webhook amount mismatch, holding payment for review",
			zap.String("reference", payment.Reference),
			zap.String("expected", payment.FinalAmount.String()),
			zap.String("reported", notif.Amount.String()))
		return &errors.FraudSuspectedError{
			Reference:      payment.Reference,
			ExpectedAmount: payment.FinalAmount,
			ReportedAmount: notif.Amount,
		}
	}

	paidAt := now
	if notif.PaidAt != nil {
		paidAt = *notif.PaidAt
	}

	applied, err := s.paymentRepo.MarkSuccess(ctx, payment.ID, paidAt, notif.Channel)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Info("success transition lost the race, treating as replay",
			zap.String("reference", payment.Reference))
		return nil
	}

	s.logger.Info("payment confirmed",
		zap.String("reference", payment.Reference),
		zap.String("channel", notif.Channel))

	if err := s.publisher.Publish(ctx, TopicPaymentSucceeded, payment); err != nil {
		s.logger.Warn("failed to publish payment.succeeded",
			zap.String("reference", payment.Reference),
			zap.Error(err))
	}
	return nil
}

func (s *LedgerService) confirmFailure(ctx context.Context, paymentID int64, notif gateway.ChargeNotification) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status.IsTerminal() || payment.Status == model.PaymentStatusSuccess {
		return nil
	}

	reason := notif.Status
	applied, err := s.paymentRepo.MarkFailed(ctx, payment.ID, reason)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	s.logger.Info("payment failed",
		zap.String("reference", payment.Reference),
		zap.String("reason", reason))

	if err := s.publisher.Publish(ctx, TopicPaymentFailed, payment); err != nil {
		s.logger.Warn("failed to publish payment.failed",
			zap.String("reference", payment.Reference),
			zap.Error(err))
	}
	return nil
}

// ReapExpired sweeps every pending payment past its expiry into the expired
// state. Called periodically by the reaper worker.
func (s *LedgerService) ReapExpired(ctx context.Context) (int64, error) {
	reaped, err := s.paymentRepo.ReapExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if reaped > 0 {
		s.logger.Info("expired pending payments", zap.Int64("count", reaped))
	}
	return reaped, nil
}
