package mcp

import (
	"context"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// mockItemService is a mock implementation of driving.ItemService.
type mockItemService struct {
	items    []domain.Item
	item     *domain.Item
	match    *domain.SearchResult
	warnings []string
	err      error

	lastDraft   domain.ItemDraft
	lastUpdates map[string]any
	lastQuery   domain.SearchQuery
	lastFilter  domain.ItemFilter
}

func (m *mockItemService) CreateItem(_ context.Context, draft domain.ItemDraft) (*domain.Item, error) {
	m.lastDraft = draft
	return m.item, m.err
}

func (m *mockItemService) UpdateItem(_ context.Context, _ string, updates map[string]any) (*domain.Item, []string, error) {
	m.lastUpdates = updates
	return m.item, m.warnings, m.err
}

func (m *mockItemService) DeleteItem(_ context.Context, _ string) (bool, error) {
	return m.err == nil, m.err
}

func (m *mockItemService) SearchItems(_ context.Context, query domain.SearchQuery) ([]domain.Item, error) {
	m.lastQuery = query
	return m.items, m.err
}

func (m *mockItemService) FindSingleItem(_ context.Context, _ string, filter domain.ItemFilter) (*domain.Item, error) {
	m.lastFilter = filter
	return m.item, m.err
}

func (m *mockItemService) FindItemByDescription(
	_ context.Context,
	_ string,
	filter domain.ItemFilter,
) (*domain.SearchResult, error) {
	m.lastFilter = filter
	return m.match, m.err
}

// mockBulkService is a mock implementation of driving.BulkService.
type mockBulkService struct {
	result *domain.BulkOperationResult
	err    error

	lastDrafts  []domain.ItemDraft
	lastRequest domain.BulkRequest
	lastUpdates map[string]any
}

func (m *mockBulkService) BulkCreateItems(_ context.Context, drafts []domain.ItemDraft) (*domain.BulkOperationResult, error) {
	m.lastDrafts = drafts
	return m.result, m.err
}

func (m *mockBulkService) BulkUpdateItems(
	_ context.Context,
	req domain.BulkRequest,
	updates map[string]any,
) (*domain.BulkOperationResult, error) {
	m.lastRequest = req
	m.lastUpdates = updates
	return m.result, m.err
}

func (m *mockBulkService) BulkDeleteItems(_ context.Context, req domain.BulkRequest) (*domain.BulkOperationResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

// mockProgramService is a mock implementation of driving.ProgramService.
type mockProgramService struct {
	result *domain.ProgramResult
	err    error

	lastOps []domain.BatchOperation
}

func (m *mockProgramService) ExecuteMultiOperation(
	_ context.Context,
	ops []domain.BatchOperation,
) (*domain.ProgramResult, error) {
	m.lastOps = ops
	return m.result, m.err
}

// mockRoutineService is a mock implementation of driving.RoutineService.
type mockRoutineService struct {
	result *domain.RoutineResult
	err    error

	lastRequest domain.RoutineRequest
}

func (m *mockRoutineService) ParseRoutineToCalendar(
	_ context.Context,
	req domain.RoutineRequest,
) (*domain.RoutineResult, error) {
	m.lastRequest = req
	return m.result, m.err
}

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	result *domain.BulkOperationResult
	ids    []string
	err    error
}

func (m *mockSyncService) ImportGitHubIssues(_ context.Context, _ string, _ int) (*domain.BulkOperationResult, error) {
	return m.result, m.err
}

func (m *mockSyncService) PublishEvents(_ context.Context, _ []string) ([]string, error) {
	return m.ids, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) { return m.settings, m.err }

func (m *mockSettingsService) Save(_ *domain.Settings) error { return m.err }

func (m *mockSettingsService) GetValue(_ string) (any, bool) { return nil, false }

func (m *mockSettingsService) SetValue(_, _ string) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func requiredPorts() *Ports {
	return &Ports{
		Items:   &mockItemService{},
		Bulk:    &mockBulkService{},
		Program: &mockProgramService{},
	}
}
