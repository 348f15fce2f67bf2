package driving

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// ProgramService runs dependency programs.
type ProgramService interface {
	// ExecuteMultiOperation orders the operations by their references,
	// substitutes referenced values and runs them in one transaction.
	// A cyclic program is rejected before anything runs.
	ExecuteMultiOperation(ctx context.Context, ops []domain.BatchOperation) (*domain.ProgramResult, error)
}
