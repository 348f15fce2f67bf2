package driving

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// ItemService is the single-item and read-only surface.
type ItemService interface {
	// CreateItem validates the draft and persists one new item.
	// A duplicate title is renamed with a " (n)" suffix.
	CreateItem(ctx context.Context, draft domain.ItemDraft) (*domain.Item, error)

	// UpdateItem applies a partial patch to the item with itemID.
	// Unknown patch fields are ignored and returned as warnings.
	UpdateItem(ctx context.Context, itemID string, updates map[string]any) (*domain.Item, []string, error)

	// DeleteItem removes the item with itemID.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteItem(ctx context.Context, itemID string) (bool, error)

	// SearchItems returns items matching the query and filters.
	SearchItems(ctx context.Context, query domain.SearchQuery) ([]domain.Item, error)

	// FindSingleItem returns the best match for query: exact id, then exact
	// title, then the highest scoring fuzzy match.
	FindSingleItem(ctx context.Context, query string, filter domain.ItemFilter) (*domain.Item, error)

	// FindItemByDescription returns the item whose title and text best
	// overlap the description.
	FindItemByDescription(ctx context.Context, description string, filter domain.ItemFilter) (*domain.SearchResult, error)
}
