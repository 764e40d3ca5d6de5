package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

// CreateOrderInput is everything a voter supplies at checkout.
type CreateOrderInput struct {
	VoterEmail   string
	VoterIP      string
	VoterContact *string
	EventID      int64
	CategoryID   int64
	BundleIDs    []int64
	CouponCode   string
}

// CreateOrderOutput carries the pending payment and the hosted-checkout
// redirect.
type CreateOrderOutput struct {
	Payment          *model.Payment
	AuthorizationURL string
	AccessCode       string
}

// OrderService opens payments: it prices an order from the bundle catalog,
// applies a coupon when one is given, persists the pending payment and opens
// a gateway checkout session for it.
type OrderService struct {
	paymentRepo  repository.PaymentRepository
	bundleRepo   repository.BundleRepository
	couponRepo   repository.CouponRepository
	categoryRepo repository.CategoryRepository
	gateway      gateway.Client
	clock        Clock
	logger       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	paymentRepo repository.PaymentRepository,
	bundleRepo repository.BundleRepository,
	couponRepo repository.CouponRepository,
	categoryRepo repository.CategoryRepository,
	gatewayClient gateway.Client,
	clock Clock,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		paymentRepo:  paymentRepo,
		bundleRepo:   bundleRepo,
		couponRepo:   couponRepo,
		categoryRepo: categoryRepo,
		gateway:      gatewayClient,
		clock:        clock,
		logger:       logger,
	}
}

// CreateOrder prices and persists a pending payment, then initializes the
// gateway checkout. Vote counts and amounts are frozen on the payment at this
// point; later catalog changes never affect it.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	now := s.clock.Now()

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &errors.NotFoundError{Entity: "category", ID: input.CategoryID}
	}
	if category.EventID != input.EventID {
		return nil, &errors.NotFoundError{Entity: "category", ID: input.CategoryID}
	}
	if !category.VotingOpenAt(now) {
		return nil, &errors.VotingClosedError{CategoryID: category.ID}
	}

	if len(input.BundleIDs) == 0 {
		return nil, &errors.InvalidBundleError{Reason: "at least one bundle is required"}
	}

	bundles, err := s.bundleRepo.GetByIDs(ctx, input.BundleIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.VoteBundle, len(bundles))
	for i := range bundles {
		byID[bundles[i].ID] = &bundles[i]
	}

	originalAmount := decimal.Zero
	votesGranted := 0
	for _, id := range input.BundleIDs {
		bundle, ok := byID[id]
		if !ok {
			return nil, &errors.InvalidBundleError{BundleID: id, Reason: "not found"}
		}
		if !bundle.Active {
			return nil, &errors.InvalidBundleError{BundleID: id, Reason: "no longer available"}
		}
		if bundle.CategoryID != input.CategoryID {
			return nil, &errors.InvalidBundleError{BundleID: id, Reason: "belongs to a different category"}
		}
		originalAmount = originalAmount.Add(bundle.Price)
		votesGranted += bundle.VotesGranted
	}

	discount := decimal.Zero
	var couponID *int64
	if input.CouponCode != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, input.CouponCode)
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			return nil, &errors.InvalidCouponError{Code: input.CouponCode, Reason: "unknown code"}
		}
		discount, err = ApplyCoupon(coupon, originalAmount, input.EventID, input.CategoryID, now)
		if err != nil {
			return nil, err
		}
		couponID = &coupon.ID
	}

	payment := &model.Payment{
		Reference:      uuid.NewString(),
		VoterEmail:     input.VoterEmail,
		VoterIP:        input.VoterIP,
		VoterContact:   input.VoterContact,
		EventID:        input.EventID,
		CategoryID:     input.CategoryID,
		CouponID:       couponID,
		OriginalAmount: originalAmount,
		DiscountAmount: discount,
		FinalAmount:    originalAmount.Sub(discount),
		Currency:       "NGN",
		Status:         model.PaymentStatusPending,
		VotesGranted:   votesGranted,
		ExpiresAt:      now.Add(model.PendingWindow),
	}

	if err := s.paymentRepo.CreateOrder(ctx, payment, input.BundleIDs); err != nil {
		return nil, err
	}

	session, err := s.gateway.InitializeTransaction(ctx, gateway.InitializeRequest{
		Reference: payment.Reference,
		Email:     payment.VoterEmail,
		Amount:    payment.FinalAmount,
		Currency:  payment.Currency,
		Metadata: map[string]interface{}{
			"event_id":    payment.EventID,
			"category_id": payment.CategoryID,
			"votes":       payment.VotesGranted,
		},
	})
	if err != nil {
		s.logger.Error("gateway initialization failed, abandoning order",
			zap.String("reference", payment.Reference),
			zap.Error(err))
		if _, markErr := s.paymentRepo.MarkFailed(ctx, payment.ID, "gateway initialization failed"); markErr != nil {
			s.logger.Error("failed to mark payment as failed after gateway error",
				zap.String("reference", payment.Reference),
				zap.Error(markErr))
		}
		return nil, fmt.Errorf("failed to initialize checkout: %w", err)
	}

	s.logger.Info("order created",
		zap.String("reference", payment.Reference),
		zap.Int64("category_id", payment.CategoryID),
		zap.Int("votes_granted", payment.VotesGranted),
		zap.String("final_amount", payment.FinalAmount.String()))

	return &CreateOrderOutput{
		Payment:          payment,
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
	}, nil
}

// GetOrder returns a payment by its gateway reference.
func (s *OrderService) GetOrder(ctx context.Context, reference string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, &errors.PaymentNotFoundError{Reference: reference}
	}
	return payment, nil
}
