package driven

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// ItemStore owns the authoritative item collection.
// Every other component works on snapshots returned by Load.
type ItemStore interface {
	// Load returns the full collection. Missing or malformed stored data
	// yields an empty collection rather than an error.
	Load(ctx context.Context) (domain.Collection, error)

	// Save replaces the stored collection.
	Save(ctx context.Context, items domain.Collection) error
}
