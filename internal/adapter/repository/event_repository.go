package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/itfy/evoting/internal/domain/model"
	domainRepo "github.com/itfy/evoting/internal/domain/repository"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.EventRepository {
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID returns the event, or nil
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event

	err := r.db.WithContext(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get event", zap.Int64("event_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// Create adds a new event
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.logger.Error("failed to create event", zap.String("name", event.Name), zap.Error(err))
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}
