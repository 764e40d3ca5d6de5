package repository

import (
	"context"

	"github.com/itfy/evoting/internal/domain/model"
)

// EventRepository manages voting events.
type EventRepository interface {
	// GetByID returns the event, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Event, error)

	// Create adds a new event.
	Create(ctx context.Context, event *model.Event) error
}
