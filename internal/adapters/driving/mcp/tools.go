package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// ItemOutput is the wire form of an item.
type ItemOutput struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Type       string         `json:"type"`
	CategoryID string         `json:"categoryId"`
	Completed  bool           `json:"completed"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`
	DueDate    string         `json:"dueDate,omitempty"`
	DateTime   string         `json:"dateTime,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func toItemOutput(item domain.Item) ItemOutput {
	out := ItemOutput{
		ID:         item.ID,
		Title:      item.Title,
		Text:       item.Text,
		Type:       string(item.Type),
		CategoryID: item.CategoryID,
		Completed:  item.Completed,
		CreatedAt:  domain.FormatTimestamp(item.CreatedAt),
		UpdatedAt:  domain.FormatTimestamp(item.UpdatedAt),
		Metadata:   item.Metadata,
	}
	if item.DueDate != nil {
		out.DueDate = domain.FormatTimestamp(*item.DueDate)
	}
	if item.DateTime != nil {
		out.DateTime = domain.FormatTimestamp(*item.DateTime)
	}
	return out
}

// UpdateItemInput is the input schema for updateItem.
type UpdateItemInput struct {
	ItemID  string         `json:"itemId" jsonschema:"id of the item to update"`
	Updates map[string]any `json:"updates" jsonschema:"fields to change; unknown fields are ignored with a warning"`
}

// UpdateItemOutput is the output schema for updateItem.
type UpdateItemOutput struct {
	Item     ItemOutput `json:"item"`
	Warnings []string   `json:"warnings"`
}

// DeleteItemInput is the input schema for deleteItem.
type DeleteItemInput struct {
	ItemID string `json:"itemId" jsonschema:"id of the item to delete"`
}

// DeleteItemOutput is the output schema for deleteItem.
type DeleteItemOutput struct {
	Deleted bool   `json:"deleted"`
	ItemID  string `json:"itemId"`
}

// SearchItemsInput is the input schema for searchItems.
type SearchItemsInput struct {
	Query        string `json:"query,omitempty" jsonschema:"free text matched against title and text, or an item id"`
	Type         string `json:"type,omitempty" jsonschema:"restrict to one item type"`
	CategoryID   string `json:"categoryId,omitempty" jsonschema:"restrict to one category"`
	Completed    *bool  `json:"completed,omitempty" jsonschema:"restrict to completed or open items"`
	TitlePattern string `json:"titlePattern,omitempty" jsonschema:"glob matched against titles, e.g. 'Read *'"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

// SearchItemsOutput is the output schema for searchItems.
type SearchItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
}

// FindSingleItemInput is the input schema for findSingleItem.
type FindSingleItemInput struct {
	Query      string `json:"query" jsonschema:"item id, exact title or free text"`
	Type       string `json:"type,omitempty" jsonschema:"restrict to one item type"`
	CategoryID string `json:"categoryId,omitempty" jsonschema:"restrict to one category"`
	Completed  *bool  `json:"completed,omitempty" jsonschema:"restrict to completed or open items"`
}

// FindByDescriptionInput is the input schema for findItemByDescription.
type FindByDescriptionInput struct {
	Description string `json:"description" jsonschema:"natural language description of the item"`
	Type        string `json:"type,omitempty" jsonschema:"restrict to one item type"`
	CategoryID  string `json:"categoryId,omitempty" jsonschema:"restrict to one category"`
}

// FindByDescriptionOutput is the output schema for findItemByDescription.
type FindByDescriptionOutput struct {
	Item  ItemOutput `json:"item"`
	Score float64    `json:"score"`
}

// BulkCreateInput is the input schema for bulkCreateItems.
type BulkCreateInput struct {
	Items []ItemInput `json:"items" jsonschema:"item drafts, at most 100 are processed"`
}

// BulkUpdateInput is the input schema for bulkUpdateItems.
type BulkUpdateInput struct {
	SearchQuery string         `json:"searchQuery" jsonschema:"selection phrase, e.g. 'overdue todos' or 'all notes'"`
	Updates     map[string]any `json:"updates" jsonschema:"fields to change on every selected item"`
	Type        string         `json:"type,omitempty" jsonschema:"restrict to one item type"`
	CategoryID  string         `json:"categoryId,omitempty" jsonschema:"restrict to one category"`
	Confirm     bool           `json:"confirm,omitempty" jsonschema:"acknowledge selections above the safety threshold"`
}

// BulkDeleteInput is the input schema for bulkDeleteItems.
type BulkDeleteInput struct {
	SearchQuery string `json:"searchQuery" jsonschema:"selection phrase, e.g. 'completed todos' or 'delete 3 notes'"`
	Type        string `json:"type,omitempty" jsonschema:"restrict to one item type"`
	CategoryID  string `json:"categoryId,omitempty" jsonschema:"restrict to one category"`
	Confirm     bool   `json:"confirm,omitempty" jsonschema:"acknowledge selections above the safety threshold"`
}

// MultiOperationInput is the input schema for executeMultiOperation.
type MultiOperationInput struct {
	Operations []OperationInput `json:"operations" jsonschema:"ordered operations; values of earlier results are referenced as ${index.field}"`
}

// MultiOperationOutput is the output schema for executeMultiOperation.
type MultiOperationOutput struct {
	Result domain.BulkOperationResult `json:"result"`
	Order  []int                      `json:"order"`
	Steps  []domain.StepResult        `json:"steps"`
}

// RoutineInput is the input schema for parseRoutineToCalendar.
type RoutineInput struct {
	RoutineDescription string `json:"routineDescription" jsonschema:"routine in plain words, e.g. 'gym at 7am on weekdays'"`
	StartDate          string `json:"startDate,omitempty" jsonschema:"first day of the range, defaults to today"`
	Days               int    `json:"days,omitempty" jsonschema:"length of the range in days, between 1 and 90"`
	Frequency          string `json:"frequency,omitempty" jsonschema:"daily, weekly, weekdays or weekends"`
	CategoryID         string `json:"categoryId,omitempty" jsonschema:"category for activities without a known one"`
	DryRun             bool   `json:"dryRun,omitempty" jsonschema:"preview the events without saving them"`
	Publish            bool   `json:"publish,omitempty" jsonschema:"also push the events to the external calendar"`
}

// EventOutput is one scheduled routine event.
type EventOutput struct {
	Title    string `json:"title"`
	At       string `json:"at"`
	Category string `json:"category,omitempty"`
	Location string `json:"location,omitempty"`
}

// RoutineOutput is the output schema for parseRoutineToCalendar.
type RoutineOutput struct {
	Result    domain.BulkOperationResult `json:"result"`
	Template  string                     `json:"template,omitempty"`
	Frequency string                     `json:"frequency"`
	Fallback  bool                       `json:"fallback"`
	Events    []EventOutput              `json:"events"`
	Published []string                   `json:"published"`
}

// ImportInput is the input schema for importGitHubIssues.
type ImportInput struct {
	CategoryID string `json:"categoryId,omitempty" jsonschema:"category for the imported todos"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of issues to fetch"`
}

// PublishInput is the input schema for publishEvents.
type PublishInput struct {
	ItemIDs []string `json:"itemIds" jsonschema:"ids of event items to publish"`
}

// PublishOutput is the output schema for publishEvents.
type PublishOutput struct {
	EventIDs []string `json:"eventIds"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "createItem",
		Description: "Create one item; a duplicate title is renamed with a numeric suffix",
	}, s.handleCreateItem)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "updateItem",
		Description: "Apply a partial update to one item",
	}, s.handleUpdateItem)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deleteItem",
		Description: "Delete one item by id",
	}, s.handleDeleteItem)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "searchItems",
		Description: "Search items by text, id, type, category, completion and title glob",
	}, s.handleSearchItems)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "findSingleItem",
		Description: "Find the single best item for a query: exact id, then exact title, then best match",
	}, s.handleFindSingleItem)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "findItemByDescription",
		Description: "Find the item whose title and text best overlap a description",
	}, s.handleFindByDescription)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bulkCreateItems",
		Description: "Create up to 100 items in one transaction",
	}, s.handleBulkCreate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bulkUpdateItems",
		Description: "Update every item selected by a search phrase in one transaction",
	}, s.handleBulkUpdate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bulkDeleteItems",
		Description: "Delete every item selected by a search phrase; more than 50 requires confirm",
	}, s.handleBulkDelete)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "executeMultiOperation",
		Description: "Run dependent create, update, delete and search operations in one transaction",
	}, s.handleMultiOperation)

	if s.ports.Routine != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "parseRoutineToCalendar",
			Description: "Turn a routine description into calendar events over a date range",
		}, s.handleParseRoutine)
	}

	if s.ports.Sync != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "importGitHubIssues",
			Description: "Import open GitHub issues assigned to the configured user as todos",
		}, s.handleImportIssues)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "publishEvents",
			Description: "Publish event items to the configured external calendar",
		}, s.handlePublishEvents)
	}
}

func (s *Server) handleCreateItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ItemInput,
) (*mcp.CallToolResult, ItemOutput, error) {
	item, err := s.ports.Items.CreateItem(ctx, input.Draft())
	if err != nil {
		return nil, ItemOutput{}, err
	}
	return nil, toItemOutput(*item), nil
}

func (s *Server) handleUpdateItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateItemInput,
) (*mcp.CallToolResult, UpdateItemOutput, error) {
	item, warnings, err := s.ports.Items.UpdateItem(ctx, input.ItemID, input.Updates)
	if err != nil {
		return nil, UpdateItemOutput{}, err
	}
	if warnings == nil {
		warnings = []string{}
	}
	return nil, UpdateItemOutput{Item: toItemOutput(*item), Warnings: warnings}, nil
}

func (s *Server) handleDeleteItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteItemInput,
) (*mcp.CallToolResult, DeleteItemOutput, error) {
	deleted, err := s.ports.Items.DeleteItem(ctx, input.ItemID)
	if err != nil {
		return nil, DeleteItemOutput{}, err
	}
	return nil, DeleteItemOutput{Deleted: deleted, ItemID: input.ItemID}, nil
}

func (s *Server) handleSearchItems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchItemsInput,
) (*mcp.CallToolResult, SearchItemsOutput, error) {
	query := domain.SearchQuery{
		Text:         input.Query,
		Type:         domain.ItemType(input.Type),
		CategoryID:   input.CategoryID,
		Completed:    input.Completed,
		TitlePattern: input.TitlePattern,
		Limit:        input.Limit,
	}
	items, err := s.ports.Items.SearchItems(ctx, query)
	if err != nil {
		return nil, SearchItemsOutput{}, err
	}

	output := SearchItemsOutput{
		Items: make([]ItemOutput, len(items)),
		Count: len(items),
	}
	for i := range items {
		output.Items[i] = toItemOutput(items[i])
	}
	return nil, output, nil
}

func (s *Server) handleFindSingleItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindSingleItemInput,
) (*mcp.CallToolResult, ItemOutput, error) {
	filter := domain.ItemFilter{
		Type:       domain.ItemType(input.Type),
		CategoryID: input.CategoryID,
		Completed:  input.Completed,
	}
	item, err := s.ports.Items.FindSingleItem(ctx, input.Query, filter)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	return nil, toItemOutput(*item), nil
}

func (s *Server) handleFindByDescription(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindByDescriptionInput,
) (*mcp.CallToolResult, FindByDescriptionOutput, error) {
	filter := domain.ItemFilter{
		Type:       domain.ItemType(input.Type),
		CategoryID: input.CategoryID,
	}
	match, err := s.ports.Items.FindItemByDescription(ctx, input.Description, filter)
	if err != nil {
		return nil, FindByDescriptionOutput{}, err
	}
	return nil, FindByDescriptionOutput{Item: toItemOutput(match.Item), Score: match.Score}, nil
}

func (s *Server) handleBulkCreate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BulkCreateInput,
) (*mcp.CallToolResult, domain.BulkOperationResult, error) {
	drafts := make([]domain.ItemDraft, len(input.Items))
	for i := range input.Items {
		drafts[i] = input.Items[i].Draft()
	}
	result, err := s.ports.Bulk.BulkCreateItems(ctx, drafts)
	if err != nil {
		return nil, domain.BulkOperationResult{}, err
	}
	return nil, *result, nil
}

func (s *Server) handleBulkUpdate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BulkUpdateInput,
) (*mcp.CallToolResult, domain.BulkOperationResult, error) {
	req := domain.BulkRequest{
		SearchQuery: input.SearchQuery,
		Type:        domain.ItemType(input.Type),
		CategoryID:  input.CategoryID,
		Confirm:     input.Confirm,
	}
	result, err := s.ports.Bulk.BulkUpdateItems(ctx, req, input.Updates)
	if err != nil {
		return nil, domain.BulkOperationResult{}, err
	}
	return nil, *result, nil
}

func (s *Server) handleBulkDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BulkDeleteInput,
) (*mcp.CallToolResult, domain.BulkOperationResult, error) {
	req := domain.BulkRequest{
		SearchQuery: input.SearchQuery,
		Type:        domain.ItemType(input.Type),
		CategoryID:  input.CategoryID,
		Confirm:     input.Confirm,
	}
	result, err := s.ports.Bulk.BulkDeleteItems(ctx, req)
	if err != nil {
		return nil, domain.BulkOperationResult{}, err
	}
	return nil, *result, nil
}

func (s *Server) handleMultiOperation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MultiOperationInput,
) (*mcp.CallToolResult, MultiOperationOutput, error) {
	ops, err := ToOperations(input.Operations)
	if err != nil {
		return nil, MultiOperationOutput{}, err
	}
	result, err := s.ports.Program.ExecuteMultiOperation(ctx, ops)
	if err != nil {
		return nil, MultiOperationOutput{}, err
	}
	return nil, MultiOperationOutput{
		Result: result.BulkOperationResult,
		Order:  result.Order,
		Steps:  result.Steps,
	}, nil
}

func (s *Server) handleParseRoutine(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RoutineInput,
) (*mcp.CallToolResult, RoutineOutput, error) {
	req := domain.RoutineRequest{
		Description: input.RoutineDescription,
		Days:        input.Days,
		Frequency:   domain.Frequency(input.Frequency),
		CategoryID:  input.CategoryID,
		DryRun:      input.DryRun,
		Publish:     input.Publish,
	}
	if input.StartDate != "" {
		start, err := domain.ParseDate(input.StartDate)
		if err != nil {
			return nil, RoutineOutput{}, fmt.Errorf("startDate: %w", err)
		}
		req.Start = start
	}

	result, err := s.ports.Routine.ParseRoutineToCalendar(ctx, req)
	if err != nil {
		return nil, RoutineOutput{}, err
	}

	output := RoutineOutput{
		Result:    result.BulkOperationResult,
		Template:  result.Plan.Template,
		Frequency: string(result.Plan.Frequency),
		Fallback:  result.Plan.Fallback,
		Events:    make([]EventOutput, len(result.Plan.Schedule)),
		Published: result.Published,
	}
	if output.Published == nil {
		output.Published = []string{}
	}
	for i, ev := range result.Plan.Schedule {
		output.Events[i] = EventOutput{
			Title:    ev.Title,
			At:       domain.FormatTimestamp(ev.At),
			Category: ev.Category,
			Location: ev.Location,
		}
	}
	return nil, output, nil
}

func (s *Server) handleImportIssues(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, domain.BulkOperationResult, error) {
	result, err := s.ports.Sync.ImportGitHubIssues(ctx, input.CategoryID, input.Limit)
	if err != nil {
		return nil, domain.BulkOperationResult{}, err
	}
	return nil, *result, nil
}

func (s *Server) handlePublishEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PublishInput,
) (*mcp.CallToolResult, PublishOutput, error) {
	ids, err := s.ports.Sync.PublishEvents(ctx, input.ItemIDs)
	if err != nil {
		return nil, PublishOutput{}, err
	}
	if ids == nil {
		ids = []string{}
	}
	return nil, PublishOutput{EventIDs: ids}, nil
}
