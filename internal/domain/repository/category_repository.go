package repository

import (
	"context"

	"github.com/itfy/evoting/internal/domain/model"
)

// CategoryRepository manages categories and their status machine.
type CategoryRepository interface {
	// GetByID returns the category, or nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Category, error)

	// ListByEvent returns an event's categories.
	ListByEvent(ctx context.Context, eventID int64) ([]model.Category, error)

	// Create adds a new category in draft status.
	Create(ctx context.Context, category *model.Category) error

	// AdvanceStatus moves a category from one status to another only if it
	// still holds the expected current status. Returns applied=false when
	// another writer advanced it first.
	AdvanceStatus(ctx context.Context, id int64, from, to model.CategoryStatus) (applied bool, err error)
}
