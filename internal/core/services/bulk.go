package services

import (
	"context"
	"fmt"
	"maps"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// Ensure BulkService implements the interface.
var _ driving.BulkService = (*BulkService)(nil)

// maxBulkCreate is the most drafts one bulk create processes.
const maxBulkCreate = 100

// BulkService builds and runs selection driven batches.
type BulkService struct {
	engine *Engine
}

// NewBulkService creates a new bulk service.
func NewBulkService(engine *Engine) *BulkService {
	return &BulkService{engine: engine}
}

// BulkCreateItems validates every draft independently, renames duplicate
// titles and creates the accepted drafts in one transaction.
func (s *BulkService) BulkCreateItems(ctx context.Context, drafts []domain.ItemDraft) (*domain.BulkOperationResult, error) {
	logger.Section("Bulk Create")
	result := domain.NewBulkOperationResult()

	if len(drafts) > maxBulkCreate {
		result.Warn(fmt.Sprintf("%d items requested, only the first %d were processed", len(drafts), maxBulkCreate))
		drafts = drafts[:maxBulkCreate]
	}
	if len(drafts) == 0 {
		result.Refuse(fmt.Errorf("%w: no items to create", domain.ErrInvalidInput))
		return result, nil
	}

	existing, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	resolver := NewTitleResolver(existing.Titles())
	batchID := s.engine.newID()

	tx := s.engine.Begin("create")
	positions := make([]int, 0, len(drafts))
	for i, draft := range drafts {
		if err := ValidateDraft(draft, s.engine.categories); err != nil {
			result.AddFailure(domain.NewFailure(i, "", err))
			continue
		}

		title, renamed, err := resolver.Resolve(draft.Title)
		if err != nil {
			result.AddFailure(domain.NewFailure(i, "", err))
			continue
		}
		if renamed {
			result.Warn(fmt.Sprintf("renamed %q to %q to avoid a duplicate title", draft.Title, title))
			logger.Debug("draft %d renamed to %q", i, title)
		}

		draft.Title = title
		draft.Metadata = maps.Clone(draft.Metadata)
		if draft.Metadata == nil {
			draft.Metadata = make(map[string]any, 2)
		}
		draft.Metadata[domain.MetaCreatedInBatch] = true
		draft.Metadata[domain.MetaBatchID] = batchID

		if err := tx.Add(domain.CreateOp{Draft: draft}); err != nil {
			return nil, err
		}
		positions = append(positions, i)
	}

	if tx.Len() == 0 {
		result.Warn("no valid items to create")
		return result, nil
	}

	txr, err := tx.Execute(ctx)
	if err != nil {
		return nil, err
	}
	foldTx(result, txr, positions)
	return result, nil
}

// BulkUpdateItems applies one validated patch to every selected item.
func (s *BulkService) BulkUpdateItems(
	ctx context.Context,
	req domain.BulkRequest,
	updates map[string]any,
) (*domain.BulkOperationResult, error) {
	logger.Section("Bulk Update")
	result := domain.NewBulkOperationResult()

	patch, warnings, err := ParsePatch(updates)
	for _, w := range warnings {
		result.Warn(w)
	}
	if err != nil {
		result.Refuse(err)
		return result, nil
	}
	if patch.IsEmpty() {
		result.Refuse(fmt.Errorf("%w: no valid update fields", domain.ErrInvalidInput))
		return result, nil
	}

	selected, ok, err := s.selectForBulk(ctx, req, result)
	if err != nil || !ok {
		return result, err
	}

	tx := s.engine.Begin("update")
	positions := make([]int, len(selected))
	for i, item := range selected {
		if err := tx.Add(domain.UpdateOp{ItemID: item.ID, Patch: patch}); err != nil {
			return nil, err
		}
		positions[i] = i
	}

	txr, err := tx.Execute(ctx)
	if err != nil {
		return nil, err
	}
	foldTx(result, txr, positions)
	return result, nil
}

// BulkDeleteItems deletes every selected item.
func (s *BulkService) BulkDeleteItems(ctx context.Context, req domain.BulkRequest) (*domain.BulkOperationResult, error) {
	logger.Section("Bulk Delete")
	result := domain.NewBulkOperationResult()

	selected, ok, err := s.selectForBulk(ctx, req, result)
	if err != nil || !ok {
		return result, err
	}

	tx := s.engine.Begin("delete")
	positions := make([]int, len(selected))
	for i, item := range selected {
		if err := tx.Add(domain.DeleteOp{ItemID: item.ID}); err != nil {
			return nil, err
		}
		positions[i] = i
	}

	txr, err := tx.Execute(ctx)
	if err != nil {
		return nil, err
	}
	foldTx(result, txr, positions)
	return result, nil
}

// selectForBulk runs the selection and records refusals on result. It
// reports false when nothing should be executed.
func (s *BulkService) selectForBulk(
	ctx context.Context,
	req domain.BulkRequest,
	result *domain.BulkOperationResult,
) ([]domain.Item, bool, error) {
	items, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	selected, warnings, err := selectItems(items, req, s.engine.now(), s.engine.rng)
	for _, w := range warnings {
		result.Warn(w)
	}
	if err != nil {
		logger.Debug("bulk selection refused: %v", err)
		result.Refuse(err)
		return nil, false, nil
	}
	if len(selected) == 0 {
		result.Warn(fmt.Sprintf("no items matched %q", req.SearchQuery))
		return nil, false, nil
	}
	logger.Debug("bulk selection matched %d items", len(selected))
	return selected, true, nil
}

// foldTx merges a transaction outcome into result. positions maps each
// transaction position to the caller's input index. Descriptor lists are
// only filled when the transaction committed.
func foldTx(result *domain.BulkOperationResult, txr *TxResult, positions []int) {
	for pos, oc := range txr.Outcomes {
		index := pos
		if pos < len(positions) {
			index = positions[pos]
		}
		if oc.Err != nil {
			result.AddFailure(domain.NewFailure(index, targetID(oc.Op), oc.Err))
			continue
		}
		result.SuccessCount++
		result.TotalProcessed++
		if !txr.Committed || oc.Output == nil || oc.Output.Item == nil {
			continue
		}
		ref := domain.RefOf(*oc.Output.Item)
		switch oc.Output.Kind {
		case domain.OpCreate:
			result.Created = append(result.Created, ref)
		case domain.OpUpdate:
			result.Updated = append(result.Updated, ref)
		case domain.OpDelete:
			result.Deleted = append(result.Deleted, ref)
		}
	}
	for _, w := range txr.Warnings {
		result.Warn(w)
	}
	result.Committed = txr.Committed
	result.RolledBack = !txr.Committed
	result.Success = txr.Committed
}

// targetID returns the item id an operation addresses, if any.
func targetID(op domain.BatchOperation) string {
	switch o := op.(type) {
	case domain.UpdateOp:
		return o.ItemID
	case domain.DeleteOp:
		return o.ItemID
	default:
		return ""
	}
}
