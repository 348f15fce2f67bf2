package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// Ensure SyncService implements the interface.
var _ driving.SyncService = (*SyncService)(nil)

// defaultImportLimit is used when the caller does not bound an import.
const defaultImportLimit = 50

// SyncService moves items between lifeops and external services.
type SyncService struct {
	engine    *Engine
	bulk      *BulkService
	importer  driven.TaskImporter
	publisher driven.CalendarPublisher
}

// NewSyncService creates a new sync service. importer and publisher may be nil.
func NewSyncService(
	engine *Engine,
	bulk *BulkService,
	importer driven.TaskImporter,
	publisher driven.CalendarPublisher,
) *SyncService {
	return &SyncService{
		engine:    engine,
		bulk:      bulk,
		importer:  importer,
		publisher: publisher,
	}
}

// ImportGitHubIssues fetches issue drafts and bulk creates the ones not
// already imported, matched by their source url.
func (s *SyncService) ImportGitHubIssues(ctx context.Context, categoryID string, limit int) (*domain.BulkOperationResult, error) {
	if s.importer == nil {
		return nil, fmt.Errorf("%w: github importer is not configured", domain.ErrNotImplemented)
	}
	if limit <= 0 {
		limit = defaultImportLimit
	}
	if categoryID == "" {
		categoryID = s.engine.defaultCategory
	}

	drafts, err := s.importer.FetchDrafts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s drafts: %w", s.importer.Name(), err)
	}

	existing, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool)
	for _, item := range existing {
		if url, ok := item.Metadata[domain.MetaURL].(string); ok {
			known[url] = true
		}
	}

	fresh := make([]domain.ItemDraft, 0, len(drafts))
	skipped := 0
	for _, d := range drafts {
		if url, ok := d.Metadata[domain.MetaURL].(string); ok && known[url] {
			skipped++
			continue
		}
		d.CategoryID = categoryID
		fresh = append(fresh, d)
	}
	logger.Debug("%s import: %d fetched, %d already present", s.importer.Name(), len(drafts), skipped)

	if len(fresh) == 0 {
		result := domain.NewBulkOperationResult()
		result.Success = true
		result.Warn(fmt.Sprintf("nothing to import, %d issues already present", skipped))
		return result, nil
	}

	result, err := s.bulk.BulkCreateItems(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		result.Warn(fmt.Sprintf("skipped %d issues already imported", skipped))
	}
	return result, nil
}

// PublishEvents pushes event items to the calendar.
func (s *SyncService) PublishEvents(ctx context.Context, itemIDs []string) ([]string, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("%w: calendar publisher is not configured", domain.ErrNotImplemented)
	}

	items, err := s.engine.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]domain.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		idx := items.IndexOf(id)
		if idx < 0 {
			return nil, fmt.Errorf("publish %q: %w", id, domain.ErrNotFound)
		}
		if items[idx].Type != domain.ItemTypeEvent {
			return nil, domain.NewValidationError("type",
				fmt.Errorf("%w: item %q is a %s, not an event", domain.ErrInvalidType, id, items[idx].Type))
		}
		events = append(events, items[idx])
	}
	return s.publisher.Publish(ctx, events)
}
