package mcp

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// ItemInput is the wire form of an item draft. It is the input schema of
// createItem and the element type of bulkCreateItems.
type ItemInput struct {
	Title       string         `json:"title" jsonschema:"item title"`
	Type        string         `json:"type" jsonschema:"one of todo, goal, event, note, routine, voiceNote"`
	CategoryID  string         `json:"categoryId" jsonschema:"category the item belongs to"`
	Text        string         `json:"text,omitempty" jsonschema:"body text"`
	Description string         `json:"description,omitempty" jsonschema:"body text, used when text is empty"`
	Completed   bool           `json:"completed,omitempty" jsonschema:"create the item already completed"`
	Priority    string         `json:"priority,omitempty" jsonschema:"low, medium or high"`
	DueDate     string         `json:"dueDate,omitempty" jsonschema:"due date, e.g. 2026-10-19 or an RFC 3339 timestamp"`
	DateTime    string         `json:"dateTime,omitempty" jsonschema:"event start, required for events"`
	Frequency   string         `json:"frequency,omitempty" jsonschema:"routine or goal frequency"`
	Location    string         `json:"location,omitempty" jsonschema:"event location"`
	Steps       string         `json:"steps,omitempty" jsonschema:"routine steps"`
	Purpose     string         `json:"purpose,omitempty" jsonschema:"why the item matters"`
	Metadata    map[string]any `json:"metadata,omitempty" jsonschema:"extra metadata stored with the item"`
}

// Draft converts the input to a domain draft.
func (in ItemInput) Draft() domain.ItemDraft {
	return domain.ItemDraft{
		Title:       in.Title,
		Text:        in.Text,
		Description: in.Description,
		Type:        in.Type,
		CategoryID:  in.CategoryID,
		Completed:   in.Completed,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		DateTime:    in.DateTime,
		Frequency:   in.Frequency,
		Location:    in.Location,
		Steps:       in.Steps,
		Purpose:     in.Purpose,
		Metadata:    in.Metadata,
	}
}

// OperationInput is one step of a dependency program. String fields may
// reference earlier results as ${index.field}, e.g. ${0.id}.
type OperationInput struct {
	Type      string            `json:"type" jsonschema:"create, update, delete or search"`
	Payload   *ItemInput        `json:"payload,omitempty" jsonschema:"item draft for create"`
	ItemID    string            `json:"itemId,omitempty" jsonschema:"target item for update and delete"`
	Updates   map[string]any    `json:"updates,omitempty" jsonschema:"fields to change for update"`
	Query     *SearchItemsInput `json:"query,omitempty" jsonschema:"selection for search"`
	DependsOn []int             `json:"dependsOn,omitempty" jsonschema:"indexes of operations that must run first"`
}

// ToOperations converts wire operations to domain operations. A malformed
// operation rejects the whole program.
func ToOperations(inputs []OperationInput) ([]domain.BatchOperation, error) {
	ops := make([]domain.BatchOperation, 0, len(inputs))
	for i, in := range inputs {
		op, err := in.toOperation()
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (in OperationInput) toOperation() (domain.BatchOperation, error) {
	switch domain.OperationKind(strings.ToLower(strings.TrimSpace(in.Type))) {
	case domain.OpCreate:
		if in.Payload == nil {
			return nil, fmt.Errorf("%w: create requires a payload", domain.ErrInvalidInput)
		}
		return domain.CreateOp{Draft: in.Payload.Draft(), DependsOn: in.DependsOn}, nil

	case domain.OpUpdate:
		if in.ItemID == "" {
			return nil, fmt.Errorf("%w: update requires an itemId", domain.ErrInvalidInput)
		}
		if len(in.Updates) == 0 {
			return nil, fmt.Errorf("%w: update requires updates", domain.ErrInvalidInput)
		}
		return domain.UpdateOp{ItemID: in.ItemID, Updates: in.Updates, DependsOn: in.DependsOn}, nil

	case domain.OpDelete:
		if in.ItemID == "" {
			return nil, fmt.Errorf("%w: delete requires an itemId", domain.ErrInvalidInput)
		}
		return domain.DeleteOp{ItemID: in.ItemID, DependsOn: in.DependsOn}, nil

	case domain.OpSearch:
		var query domain.SearchQuery
		if in.Query != nil {
			query = domain.SearchQuery{
				Text:         in.Query.Query,
				Type:         domain.ItemType(in.Query.Type),
				CategoryID:   in.Query.CategoryID,
				Completed:    in.Query.Completed,
				TitlePattern: in.Query.TitlePattern,
				Limit:        in.Query.Limit,
			}
		}
		return domain.SearchOp{Query: query, DependsOn: in.DependsOn}, nil

	default:
		return nil, fmt.Errorf("%w: unknown operation type %q", domain.ErrInvalidInput, in.Type)
	}
}
