package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// Ensure ItemService implements the interface.
var _ driving.ItemService = (*ItemService)(nil)

// minDescriptionScore is the lowest relevance findItemByDescription accepts.
const minDescriptionScore = 0.3

// ItemService implements the single-item and read paths.
type ItemService struct {
	engine *Engine
}

// NewItemService creates a new item service.
func NewItemService(engine *Engine) *ItemService {
	return &ItemService{engine: engine}
}

// CreateItem validates the draft, resolves a duplicate title and persists
// the item.
func (s *ItemService) CreateItem(ctx context.Context, draft domain.ItemDraft) (*domain.Item, error) {
	if err := ValidateDraft(draft, s.engine.categories); err != nil {
		return nil, err
	}

	existing, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	title, renamed, err := NewTitleResolver(existing.Titles()).Resolve(draft.Title)
	if err != nil {
		return nil, err
	}
	if renamed {
		logger.Debug("create renamed %q to %q", draft.Title, title)
	}
	draft.Title = title

	out, err := s.runSingle(ctx, domain.CreateOp{Draft: draft})
	if err != nil {
		return nil, err
	}
	return out.Item, nil
}

// UpdateItem applies a partial patch. Unknown fields are returned as
// warnings alongside the updated item.
func (s *ItemService) UpdateItem(ctx context.Context, itemID string, updates map[string]any) (*domain.Item, []string, error) {
	patch, warnings, err := ParsePatch(updates)
	if err != nil {
		return nil, warnings, err
	}
	if patch.IsEmpty() {
		return nil, warnings, domain.NewValidationError("updates",
			fmt.Errorf("%w: no valid update fields", domain.ErrInvalidInput))
	}

	out, err := s.runSingle(ctx, domain.UpdateOp{ItemID: itemID, Updates: updates, Patch: patch})
	if err != nil {
		return nil, warnings, err
	}
	return out.Item, warnings, nil
}

// DeleteItem removes an item.
func (s *ItemService) DeleteItem(ctx context.Context, itemID string) (bool, error) {
	if _, err := s.runSingle(ctx, domain.DeleteOp{ItemID: itemID}); err != nil {
		return false, err
	}
	return true, nil
}

// runSingle executes one operation in its own transaction.
func (s *ItemService) runSingle(ctx context.Context, op domain.BatchOperation) (*domain.OperationOutput, error) {
	tx := s.engine.Begin("item")
	if err := tx.Add(op); err != nil {
		return nil, err
	}
	txr, err := tx.Execute(ctx)
	if err != nil {
		return nil, err
	}
	oc := txr.Outcomes[0]
	if oc.Err != nil {
		return nil, oc.Err
	}
	return oc.Output, nil
}

// SearchItems returns matching items, best match first.
func (s *ItemService) SearchItems(ctx context.Context, query domain.SearchQuery) ([]domain.Item, error) {
	items, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return searchCollection(items, query)
}

// FindSingleItem returns the item with id query, else the item titled
// query, else the best fuzzy match.
func (s *ItemService) FindSingleItem(ctx context.Context, query string, filter domain.ItemFilter) (*domain.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	filter, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	items, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if idx := items.IndexOf(query); idx >= 0 {
		item := items[idx].Clone()
		return &item, nil
	}
	for _, item := range items {
		if filter.Matches(item) && strings.EqualFold(item.Title, query) {
			found := item.Clone()
			return &found, nil
		}
	}

	matches, err := searchCollection(items, domain.SearchQuery{
		Text:       query,
		Type:       filter.Type,
		CategoryID: filter.CategoryID,
		Completed:  filter.Completed,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("find %q: %w", query, domain.ErrNotFound)
	}
	return &matches[0], nil
}

// FindItemByDescription returns the item whose title and body best overlap
// the description, if it scores at least minDescriptionScore.
func (s *ItemService) FindItemByDescription(
	ctx context.Context,
	description string,
	filter domain.ItemFilter,
) (*domain.SearchResult, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: empty description", domain.ErrInvalidInput)
	}
	filter, err := filter.Normalize()
	if err != nil {
		return nil, err
	}

	items, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	var best *domain.SearchResult
	for _, item := range items {
		if !filter.Matches(item) {
			continue
		}
		score := relevance(item, description)
		if score < minDescriptionScore {
			continue
		}
		if best == nil || score > best.Score || (score == best.Score && lessByCreation(item, best.Item)) {
			best = &domain.SearchResult{Item: item.Clone(), Score: score}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("describe %q: %w", description, domain.ErrNotFound)
	}
	return best, nil
}
