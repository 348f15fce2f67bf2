package driving

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// BulkService applies selection driven batch mutations.
//
// Refusals (empty scope, safety threshold) are not Go errors: they return a
// result with Success false, a warning and the refusal code.
type BulkService interface {
	// BulkCreateItems creates up to 100 items in one transaction.
	BulkCreateItems(ctx context.Context, drafts []domain.ItemDraft) (*domain.BulkOperationResult, error)

	// BulkUpdateItems patches every selected item in one transaction.
	BulkUpdateItems(ctx context.Context, req domain.BulkRequest, updates map[string]any) (*domain.BulkOperationResult, error)

	// BulkDeleteItems deletes every selected item in one transaction.
	BulkDeleteItems(ctx context.Context, req domain.BulkRequest) (*domain.BulkOperationResult, error)
}
