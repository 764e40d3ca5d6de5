package usecase_test

import (
	"context"
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

func catalogBundles(now time.Time) []model.VoteBundle {
	return []model.VoteBundle{
		{ID: 1, CategoryID: 2, Name: "Starter", VotesGranted: 5, Price: decimal.RequireFromString("4.00"), Active: true},
		{ID: 2, CategoryID: 2, Name: "Booster", VotesGranted: 10, Price: decimal.RequireFromString("6.00"), Active: true},
	}
}

func orderInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		VoterEmail: "voter@example.com",
		VoterIP:    "203.0.113.9",
		EventID:    1,
		CategoryID: 2,
		BundleIDs:  []int64{1, 2},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	newMocks := func() (*MockPaymentRepository, *MockBundleRepository, *MockCouponRepository, *MockCategoryRepository, *MockGatewayClient) {
		return new(MockPaymentRepository), new(MockBundleRepository), new(MockCouponRepository), new(MockCategoryRepository), new(MockGatewayClient)
	}

	t.Run("prices bundles and opens a checkout session", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		categoryRepo.On("GetByID", ctx, int64(2)).Return(openCategory(now), nil)
		bundleRepo.On("GetByIDs", ctx, []int64{1, 2}).Return(catalogBundles(now), nil)
		paymentRepo.On("CreateOrder", ctx, mock.AnythingOfType("*model.Payment"), []int64{1, 2}).Return(nil)
		gatewayClient.On("InitializeTransaction", ctx, mock.AnythingOfType("gateway.InitializeRequest")).
			Return(&gateway.InitializeResponse{AuthorizationURL: "https://checkout.example/abc", AccessCode: "abc"}, nil)

		output, err := service.CreateOrder(ctx, orderInput())

		require.NoError(t, err)
		assert.Equal(t, 15, output.Payment.VotesGranted)
		assert.True(t, output.Payment.FinalAmount.Equal(decimal.RequireFromString("10.00")))
		assert.Equal(t, model.PaymentStatusPending, output.Payment.Status)
		assert.Equal(t, now.Add(model.PendingWindow), output.Payment.ExpiresAt)
		assert.NotEmpty(t, output.Payment.Reference)
		assert.Equal(t, "https://checkout.example/abc", output.AuthorizationURL)
	})

	t.Run("applies a percentage coupon", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		input := orderInput()
		input.CouponCode = "SAVE20"
		coupon := &model.Coupon{
			ID:            9,
			Code:          "SAVE20",
			DiscountType:  model.DiscountTypePercentage,
			DiscountValue: decimal.RequireFromString("20"),
			ValidFrom:     now.Add(-time.Hour),
			ValidTo:       now.Add(time.Hour),
			UsageLimit:    10,
		}

		categoryRepo.On("GetByID", ctx, int64(2)).Return(openCategory(now), nil)
		bundleRepo.On("GetByIDs", ctx, []int64{1, 2}).Return(catalogBundles(now), nil)
		couponRepo.On("GetByCode", ctx, "SAVE20").Return(coupon, nil)
		paymentRepo.On("CreateOrder", ctx, mock.AnythingOfType("*model.Payment"), []int64{1, 2}).Return(nil)
		gatewayClient.On("InitializeTransaction", ctx, mock.AnythingOfType("gateway.InitializeRequest")).
			Return(&gateway.InitializeResponse{AuthorizationURL: "https://checkout.example/abc", AccessCode: "abc"}, nil)

		output, err := service.CreateOrder(ctx, input)

		require.NoError(t, err)
		assert.True(t, output.Payment.DiscountAmount.Equal(decimal.RequireFromString("2.00")))
		assert.True(t, output.Payment.FinalAmount.Equal(decimal.RequireFromString("8.00")))
		require.NotNil(t, output.Payment.CouponID)
		assert.Equal(t, int64(9), *output.Payment.CouponID)
	})

	t.Run("rejects an unknown bundle", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		input := orderInput()
		input.BundleIDs = []int64{1, 99}

		categoryRepo.On("GetByID", ctx, int64(2)).Return(openCategory(now), nil)
		bundleRepo.On("GetByIDs", ctx, []int64{1, 99}).Return(catalogBundles(now)[:1], nil)

		_, err := service.CreateOrder(ctx, input)

		var invalidBundle *domainErrors.InvalidBundleError
		require.ErrorAs(t, err, &invalidBundle)
		assert.Equal(t, int64(99), invalidBundle.BundleID)
		paymentRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a retired bundle", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		bundles := catalogBundles(now)
		bundles[1].Active = false

		categoryRepo.On("GetByID", ctx, int64(2)).Return(openCategory(now), nil)
		bundleRepo.On("GetByIDs", ctx, []int64{1, 2}).Return(bundles, nil)

		_, err := service.CreateOrder(ctx, orderInput())

		var invalidBundle *domainErrors.InvalidBundleError
		require.ErrorAs(t, err, &invalidBundle)
	})

	t.Run("rejects orders while voting is closed", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		category := openCategory(now)
		category.Status = model.CategoryStatusActive

		categoryRepo.On("GetByID", ctx, int64(2)).Return(category, nil)

		_, err := service.CreateOrder(ctx, orderInput())

		var closed *domainErrors.VotingClosedError
		require.ErrorAs(t, err, &closed)
	})

	t.Run("propagates a duplicate open order", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		categoryRepo.On("GetByID", ctx, int64(2)).Return(openCategory(now), nil)
		bundleRepo.On("GetByIDs", ctx, []int64{1, 2}).Return(catalogBundles(now), nil)
		paymentRepo.On("CreateOrder", ctx, mock.AnythingOfType("*model.Payment"), []int64{1, 2}).
			Return(domainErrors.NewDuplicateOrderError("voter@example.com", 1, 2))

		_, err := service.CreateOrder(ctx, orderInput())

		var duplicate *domainErrors.DuplicateOrderError
		require.ErrorAs(t, err, &duplicate)
		gatewayClient.AssertNotCalled(t, "InitializeTransaction", mock.Anything, mock.Anything)
	})

	t.Run("marks the payment failed when the gateway rejects", func(t *testing.T) {
		paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient := newMocks()
		service := usecase.NewOrderService(paymentRepo, bundleRepo, couponRepo, categoryRepo, gatewayClient, clock, logger)

		categoryRepo.On("GetByID", ctx, int64(2)).Return(openCategory(now), nil)
		bundleRepo.On("GetByIDs", ctx, []int64{1, 2}).Return(catalogBundles(now), nil)
		paymentRepo.On("CreateOrder", ctx, mock.AnythingOfType("*model.Payment"), []int64{1, 2}).Return(nil)
		gatewayClient.On("InitializeTransaction", ctx, mock.AnythingOfType("gateway.InitializeRequest")).
			Return(nil, assert.AnError)
		paymentRepo.On("MarkFailed", ctx, mock.AnythingOfType("int64"), "gateway initialization failed").Return(true, nil)

		_, err := service.CreateOrder(ctx, orderInput())

		require.Error(t, err)
		paymentRepo.AssertExpectations(t)
	})
}
