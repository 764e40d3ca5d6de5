package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/adapter/repository"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Payment   domainRepo.PaymentRepository
	Vote      domainRepo.VoteRepository
	Bundle    domainRepo.BundleRepository
	Coupon    domainRepo.CouponRepository
	Category  domainRepo.CategoryRepository
	Candidate domainRepo.CandidateRepository
	Event     domainRepo.EventRepository
	Webhook   domainRepo.WebhookRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Payment:   repository.NewPaymentRepository(db, logger),
		Vote:      repository.NewVoteRepository(db, logger),
		Bundle:    repository.NewBundleRepository(db, logger),
		Coupon:    repository.NewCouponRepository(db, logger),
		Category:  repository.NewCategoryRepository(db, logger),
		Candidate: repository.NewCandidateRepository(db, logger),
		Event:     repository.NewEventRepository(db, logger),
		Webhook:   repository.NewWebhookRepository(db, logger),
	}
}
