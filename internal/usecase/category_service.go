package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/itfy/evoting/internal/domain/errors"
	"github.com/itfy/evoting/internal/domain/model"
	"github.com/itfy/evoting/internal/domain/repository"
)

// statusTransitions is the category lifecycle: each status admits exactly one
// forward transition.
var statusTransitions = map[model.CategoryStatus]model.CategoryStatus{
	model.CategoryStatusDraft:        model.CategoryStatusActive,
	model.CategoryStatusActive:       model.CategoryStatusVotingOpen,
	model.CategoryStatusVotingOpen:   model.CategoryStatusVotingClosed,
	model.CategoryStatusVotingClosed: model.CategoryStatusCompleted,
}

// CategoryService manages events, categories and the category status machine.
type CategoryService struct {
	eventRepo    repository.EventRepository
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(
	eventRepo repository.EventRepository,
	categoryRepo repository.CategoryRepository,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateEvent adds a new voting event.
func (s *CategoryService) CreateEvent(ctx context.Context, event *model.Event) error {
	if event.EndDate.Before(event.StartDate) {
		return fmt.Errorf("event end date precedes start date")
	}
	return s.eventRepo.Create(ctx, event)
}

// GetEvent returns an event by id.
func (s *CategoryService) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, &errors.NotFoundError{Entity: "event", ID: id}
	}
	return event, nil
}

// CreateCategory adds a category to an event in draft status.
func (s *CategoryService) CreateCategory(ctx context.Context, category *model.Category) error {
	event, err := s.eventRepo.GetByID(ctx, category.EventID)
	if err != nil {
		return err
	}
	if event == nil {
		return &errors.NotFoundError{Entity: "event", ID: category.EventID}
	}

	if category.MinVotes < 1 {
		category.MinVotes = 1
	}
	if category.MaxVotes > 0 && category.MaxVotes < category.MinVotes {
		return fmt.Errorf("max votes %d is below min votes %d", category.MaxVotes, category.MinVotes)
	}

	category.Status = model.CategoryStatusDraft
	return s.categoryRepo.Create(ctx, category)
}

// GetCategory returns a category by id.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &errors.NotFoundError{Entity: "category", ID: id}
	}
	return category, nil
}

// ListCategories returns an event's categories.
func (s *CategoryService) ListCategories(ctx context.Context, eventID int64) ([]model.Category, error) {
	return s.categoryRepo.ListByEvent(ctx, eventID)
}

// AdvanceStatus moves a category one step forward in its lifecycle. The
// compare-and-swap in the repository makes concurrent advances safe; a lost
// race reports applied=false.
func (s *CategoryService) AdvanceStatus(ctx context.Context, id int64) (model.CategoryStatus, bool, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return "", false, err
	}
	if category == nil {
		return "", false, &errors.NotFoundError{Entity: "category", ID: id}
	}

	next, ok := statusTransitions[category.Status]
	if !ok {
		return category.Status, false, fmt.Errorf("category %d is already %s", id, category.Status)
	}

	applied, err := s.categoryRepo.AdvanceStatus(ctx, id, category.Status, next)
	if err != nil {
		return "", false, err
	}
	if applied {
		s.logger.Info("category status advanced",
			zap.Int64("category_id", id),
			zap.String("from", string(category.Status)),
			zap.String("to", string(next)))
	}
	return next, applied, nil
}
