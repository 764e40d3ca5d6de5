package usecase_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/itfy/evoting/internal/domain/gateway"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

// fixedClock pins time for deterministic expiry and window checks.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateOrder(ctx context.Context, payment *model.Payment, bundleIDs []int64) error {
	args := m.Called(ctx, payment, bundleIDs)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkSuccess(ctx context.Context, paymentID int64, paidAt time.Time, channel string) (bool, error) {
	args := m.Called(ctx, paymentID, paidAt, channel)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkFailed(ctx context.Context, paymentID int64, reason string) (bool, error) {
	args := m.Called(ctx, paymentID, reason)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkExpired(ctx context.Context, paymentID int64) (bool, error) {
	args := m.Called(ctx, paymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) ReapExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) IncrementVerificationAttempts(ctx context.Context, paymentID int64) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

func (m *MockPaymentRepository) SpendVotes(ctx context.Context, paymentID, candidateID int64, votes int, voterIP string, rules repository.CastRules, now time.Time) (*model.Payment, *model.Vote, error) {
	args := m.Called(ctx, paymentID, candidateID, votes, voterIP, rules, now)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Payment), args.Get(1).(*model.Vote), args.Error(2)
}

// MockVoteRepository is a mock implementation of VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) GetByPayment(ctx context.Context, paymentID int64) ([]model.Vote, error) {
	args := m.Called(ctx, paymentID)
	return args.Get(0).([]model.Vote), args.Error(1)
}

func (m *MockVoteRepository) TallyByCategory(ctx context.Context, categoryID int64) ([]repository.CandidateTally, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]repository.CandidateTally), args.Error(1)
}

// MockBundleRepository is a mock implementation of BundleRepository
type MockBundleRepository struct {
	mock.Mock
}

func (m *MockBundleRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.VoteBundle, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.VoteBundle), args.Error(1)
}

func (m *MockBundleRepository) ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.VoteBundle, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]model.VoteBundle), args.Error(1)
}

func (m *MockBundleRepository) Create(ctx context.Context, bundle *model.VoteBundle) error {
	args := m.Called(ctx, bundle)
	return args.Error(0)
}

func (m *MockBundleRepository) Retire(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCouponRepository is a mock implementation of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id int64) (*model.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByEvent(ctx context.Context, eventID int64) ([]model.Category, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) AdvanceStatus(ctx context.Context, id int64, from, to model.CategoryStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

// MockCandidateRepository is a mock implementation of CandidateRepository
type MockCandidateRepository struct {
	mock.Mock
}

func (m *MockCandidateRepository) GetByID(ctx context.Context, id int64) (*model.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) Create(ctx context.Context, candidate *model.Candidate, categoryIDs []int64) error {
	args := m.Called(ctx, candidate, categoryIDs)
	return args.Error(0)
}

func (m *MockCandidateRepository) IsNominated(ctx context.Context, candidateID, categoryID int64) (bool, error) {
	args := m.Called(ctx, candidateID, categoryID)
	return args.Bool(0), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockWebhookRepository is a mock implementation of WebhookRepository
type MockWebhookRepository struct {
	mock.Mock
}

func (m *MockWebhookRepository) SaveEvent(ctx context.Context, eventID, eventType, reference string, data json.RawMessage) (bool, error) {
	args := m.Called(ctx, eventID, eventType, reference, data)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookRepository) GetEvent(ctx context.Context, eventID string) (*model.GatewayWebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayWebhookEvent), args.Error(1)
}

func (m *MockWebhookRepository) MarkProcessed(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockWebhookRepository) MarkFailed(ctx context.Context, eventID string, cause error) error {
	args := m.Called(ctx, eventID, cause)
	return args.Error(0)
}

// MockCacheRepository is a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockGatewayClient is a mock implementation of gateway.Client
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) InitializeTransaction(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.InitializeResponse), args.Error(1)
}

func (m *MockGatewayClient) VerifySignature(body []byte, signature string) bool {
	args := m.Called(body, signature)
	return args.Bool(0)
}

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}
