package driving

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// SyncService moves items between lifeops and external services.
type SyncService interface {
	// ImportGitHubIssues bulk creates todos from issues assigned to the
	// configured GitHub user.
	ImportGitHubIssues(ctx context.Context, categoryID string, limit int) (*domain.BulkOperationResult, error)

	// PublishEvents pushes the given event items to the external calendar
	// and returns the external event ids.
	PublishEvents(ctx context.Context, itemIDs []string) ([]string, error)
}
