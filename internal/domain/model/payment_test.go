package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itfy/evoting/internal/domain/model"
)

func TestPayment_VotesRemaining(t *testing.T) {
	payment := &model.Payment{VotesGranted: 10, VotesCast: 7}
	assert.Equal(t, 3, payment.VotesRemaining())

	payment.VotesCast = 10
	assert.Equal(t, 0, payment.VotesRemaining())
}

func TestPayment_IsExpired(t *testing.T) {
	now := time.Now()

	t.Run("pending past expiry", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusPending, ExpiresAt: now.Add(-time.Minute)}
		assert.True(t, payment.IsExpired(now))
	})

	t.Run("pending inside the window", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusPending, ExpiresAt: now.Add(time.Minute)}
		assert.False(t, payment.IsExpired(now))
	})

	t.Run("confirmed payments never expire", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusSuccess, ExpiresAt: now.Add(-time.Hour)}
		assert.False(t, payment.IsExpired(now))
	})
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.PaymentStatusPending.IsTerminal())
	assert.False(t, model.PaymentStatusSuccess.IsTerminal())
	assert.True(t, model.PaymentStatusFailed.IsTerminal())
	assert.True(t, model.PaymentStatusAbandoned.IsTerminal())
	assert.True(t, model.PaymentStatusExpired.IsTerminal())
}

func TestCategory_VotingOpenAt(t *testing.T) {
	now := time.Now()
	category := &model.Category{
		Status:          model.CategoryStatusVotingOpen,
		VotingStartDate: now.Add(-time.Hour),
		VotingEndDate:   now.Add(time.Hour),
	}

	assert.True(t, category.VotingOpenAt(now))
	assert.False(t, category.VotingOpenAt(now.Add(2*time.Hour)))
	assert.False(t, category.VotingOpenAt(now.Add(-2*time.Hour)))

	category.Status = model.CategoryStatusVotingClosed
	assert.False(t, category.VotingOpenAt(now))
}

func TestCoupon_InScope(t *testing.T) {
	eventID := int64(1)
	categoryID := int64(2)

	t.Run("unrestricted coupon applies everywhere", func(t *testing.T) {
		coupon := &model.Coupon{}
		assert.True(t, coupon.InScope(1, 2))
		assert.True(t, coupon.InScope(9, 9))
	})

	t.Run("scoped coupon matches only its scope", func(t *testing.T) {
		coupon := &model.Coupon{EventID: &eventID, CategoryID: &categoryID}
		assert.True(t, coupon.InScope(1, 2))
		assert.False(t, coupon.InScope(1, 3))
		assert.False(t, coupon.InScope(2, 2))
	})
}
