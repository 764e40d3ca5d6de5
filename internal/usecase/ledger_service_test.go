package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/usecase"
)

func pendingPayment(now time.Time) *model.Payment {
	return &model.Payment{
		ID:           42,
		Reference:    "ref-42",
		VoterEmail:   "voter@example.com",
		EventID:      1,
		CategoryID:   2,
		FinalAmount:  decimal.RequireFromString("80.00"),
		Status:       model.PaymentStatusPending,
		VotesGranted: 10,
		ExpiresAt:    now.Add(10 * time.Minute),
	}
}

func successNotification() gateway.ChargeNotification {
	return gateway.ChargeNotification{
		Reference: "ref-42",
		Status:    "success",
		Channel:   "card",
		Amount:    decimal.RequireFromString("80.00"),
	}
}

func TestLedgerService_ProcessNotification(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}
	raw := json.RawMessage(`{"event":"charge.success"}`)

	t.Run("confirms a pending payment", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		payment := pendingPayment(now)
		webhookRepo.On("SaveEvent", ctx, "evt-1", "charge.success", "ref-42", raw).Return(true, nil)
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(payment, nil)
		paymentRepo.On("IncrementVerificationAttempts", ctx, int64(42)).Return(nil)
		paymentRepo.On("GetByID", ctx, int64(42)).Return(payment, nil)
		paymentRepo.On("MarkSuccess", ctx, int64(42), now, "card").Return(true, nil)
		publisher.On("Publish", ctx, usecase.TopicPaymentSucceeded, payment).Return(nil)
		webhookRepo.On("MarkProcessed", ctx, "evt-1").Return(nil)

		err := service.ProcessNotification(ctx, "evt-1", "charge.success", successNotification(), raw)

		require.NoError(t, err)
		paymentRepo.AssertExpectations(t)
		webhookRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("ignores a replayed delivery that already completed", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		webhookRepo.On("SaveEvent", ctx, "evt-1", "charge.success", "ref-42", raw).Return(false, nil)
		webhookRepo.On("GetEvent", ctx, "evt-1").Return(&model.GatewayWebhookEvent{
			GatewayEventID: "evt-1",
			Status:         model.WebhookStatusCompleted,
		}, nil)

		err := service.ProcessNotification(ctx, "evt-1", "charge.success", successNotification(), raw)

		require.NoError(t, err)
		paymentRepo.AssertNotCalled(t, "GetByReference", mock.Anything, mock.Anything)
	})

	t.Run("redelivery after a transient failure is applied", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		payment := pendingPayment(now)
		transient := errors.New("connection reset by peer")

		webhookRepo.On("SaveEvent", ctx, "evt-7", "charge.success", "ref-42", raw).Return(true, nil).Once()
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(payment, nil)
		paymentRepo.On("IncrementVerificationAttempts", ctx, int64(42)).Return(nil)
		paymentRepo.On("GetByID", ctx, int64(42)).Return(payment, nil)
		paymentRepo.On("MarkSuccess", ctx, int64(42), now, "card").Return(false, transient).Once()
		webhookRepo.On("MarkFailed", ctx, "evt-7", transient).Return(nil)

		err := service.ProcessNotification(ctx, "evt-7", "charge.success", successNotification(), raw)
		require.ErrorIs(t, err, transient)

		// The gateway retries the same event id. The dedupe insert reports
		// a duplicate, but the stored delivery never completed, so the
		// retry must reach the payment again.
		webhookRepo.On("SaveEvent", ctx, "evt-7", "charge.success", "ref-42", raw).Return(false, nil)
		webhookRepo.On("GetEvent", ctx, "evt-7").Return(&model.GatewayWebhookEvent{
			GatewayEventID: "evt-7",
			Status:         model.WebhookStatusFailed,
		}, nil)
		paymentRepo.On("MarkSuccess", ctx, int64(42), now, "card").Return(true, nil).Once()
		publisher.On("Publish", ctx, usecase.TopicPaymentSucceeded, payment).Return(nil)
		webhookRepo.On("MarkProcessed", ctx, "evt-7").Return(nil)

		err = service.ProcessNotification(ctx, "evt-7", "charge.success", successNotification(), raw)

		require.NoError(t, err)
		paymentRepo.AssertNumberOfCalls(t, "MarkSuccess", 2)
		webhookRepo.AssertExpectations(t)
	})

	t.Run("replay of success on a confirmed payment is idempotent", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		payment := pendingPayment(now)
		payment.Status = model.PaymentStatusSuccess
		webhookRepo.On("SaveEvent", ctx, "evt-2", "charge.success", "ref-42", raw).Return(true, nil)
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(payment, nil)
		paymentRepo.On("IncrementVerificationAttempts", ctx, int64(42)).Return(nil)
		paymentRepo.On("GetByID", ctx, int64(42)).Return(payment, nil)
		webhookRepo.On("MarkProcessed", ctx, "evt-2").Return(nil)

		err := service.ProcessNotification(ctx, "evt-2", "charge.success", successNotification(), raw)

		require.NoError(t, err)
		paymentRepo.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired payment is swept and rejected", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		payment := pendingPayment(now)
		payment.ExpiresAt = now.Add(-time.Minute)
		webhookRepo.On("SaveEvent", ctx, "evt-3", "charge.success", "ref-42", raw).Return(true, nil)
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(payment, nil)
		paymentRepo.On("IncrementVerificationAttempts", ctx, int64(42)).Return(nil)
		paymentRepo.On("GetByID", ctx, int64(42)).Return(payment, nil)
		paymentRepo.On("MarkExpired", ctx, int64(42)).Return(true, nil)
		webhookRepo.On("MarkFailed", ctx, "evt-3", mock.Anything).Return(nil)

		err := service.ProcessNotification(ctx, "evt-3", "charge.success", successNotification(), raw)

		var expired *domainErrors.PaymentExpiredError
		require.ErrorAs(t, err, &expired)
		paymentRepo.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("amount mismatch holds the payment for review", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		payment := pendingPayment(now)
		notif := successNotification()
		notif.Amount = decimal.RequireFromString("1.00")

		webhookRepo.On("SaveEvent", ctx, "evt-4", "charge.success", "ref-42", raw).Return(true, nil)
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(payment, nil)
		paymentRepo.On("IncrementVerificationAttempts", ctx, int64(42)).Return(nil)
		paymentRepo.On("GetByID", ctx, int64(42)).Return(payment, nil)
		webhookRepo.On("MarkFailed", ctx, "evt-4", mock.Anything).Return(nil)

		err := service.ProcessNotification(ctx, "evt-4", "charge.success", notif, raw)

		var fraud *domainErrors.FraudSuspectedError
		require.ErrorAs(t, err, &fraud)
		assert.True(t, fraud.ExpectedAmount.Equal(payment.FinalAmount))
		paymentRepo.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		paymentRepo.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything)
	})

	t.Run("unknown reference is rejected", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		webhookRepo.On("SaveEvent", ctx, "evt-5", "charge.success", "ref-42", raw).Return(true, nil)
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(nil, nil)
		webhookRepo.On("MarkFailed", ctx, "evt-5", mock.Anything).Return(nil)

		err := service.ProcessNotification(ctx, "evt-5", "charge.success", successNotification(), raw)

		var notFound *domainErrors.PaymentNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("failure notification marks the payment failed", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		webhookRepo := new(MockWebhookRepository)
		publisher := new(MockPublisher)
		service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

		payment := pendingPayment(now)
		notif := successNotification()
		notif.Status = "failed"

		webhookRepo.On("SaveEvent", ctx, "evt-6", "charge.failed", "ref-42", raw).Return(true, nil)
		paymentRepo.On("GetByReference", ctx, "ref-42").Return(payment, nil)
		paymentRepo.On("IncrementVerificationAttempts", ctx, int64(42)).Return(nil)
		paymentRepo.On("GetByID", ctx, int64(42)).Return(payment, nil)
		paymentRepo.On("MarkFailed", ctx, int64(42), "failed").Return(true, nil)
		publisher.On("Publish", ctx, usecase.TopicPaymentFailed, payment).Return(nil)
		webhookRepo.On("MarkProcessed", ctx, "evt-6").Return(nil)

		err := service.ProcessNotification(ctx, "evt-6", "charge.failed", notif, raw)

		require.NoError(t, err)
		paymentRepo.AssertExpectations(t)
	})
}

func TestLedgerService_ReapExpired(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	paymentRepo := new(MockPaymentRepository)
	webhookRepo := new(MockWebhookRepository)
	publisher := new(MockPublisher)
	service := usecase.NewLedgerService(paymentRepo, webhookRepo, publisher, clock, logger)

	paymentRepo.On("ReapExpired", ctx, now).Return(int64(3), nil)

	reaped, err := service.ReapExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), reaped)
}
