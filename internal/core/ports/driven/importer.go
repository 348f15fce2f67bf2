package driven

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// TaskImporter fetches todo drafts from an external tracker.
type TaskImporter interface {
	// Name identifies the importer (e.g., "github").
	Name() string

	// FetchDrafts returns up to limit drafts. Category ids are left for the
	// caller to fill in.
	FetchDrafts(ctx context.Context, limit int) ([]domain.ItemDraft, error)
}
