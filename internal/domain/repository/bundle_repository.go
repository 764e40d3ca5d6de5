package repository

import (
	"context"

	"github.com/itfy/evoting/internal/domain/model"
)

// BundleRepository manages the read-mostly vote bundle catalog.
type BundleRepository interface {
	// GetByIDs returns the bundles for the given ids; missing ids are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]model.VoteBundle, error)

	// ListActiveByCategory returns the purchasable bundles of a category.
	ListActiveByCategory(ctx context.Context, categoryID int64) ([]model.VoteBundle, error)

	// Create adds a new bundle to the catalog.
	Create(ctx context.Context, bundle *model.VoteBundle) error

	// Retire deactivates a bundle; existing payments keep referencing it.
	Retire(ctx context.Context, id int64) error
}
