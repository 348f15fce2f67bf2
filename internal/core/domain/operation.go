package domain

import (
	"strconv"
	"strings"
)

// OperationKind tags a BatchOperation variant.
type OperationKind string

// Available operation kinds.
const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
	OpDelete OperationKind = "delete"
	OpSearch OperationKind = "search"
)

// IsValid returns true if the kind is recognised.
func (k OperationKind) IsValid() bool {
	switch k {
	case OpCreate, OpUpdate, OpDelete, OpSearch:
		return true
	default:
		return false
	}
}

// BatchOperation is the closed set of operations a transaction applies.
// The variants are CreateOp, UpdateOp, DeleteOp and SearchOp.
type BatchOperation interface {
	Kind() OperationKind
	// Dependencies returns the explicit indices of earlier operations this
	// one must run after.
	Dependencies() []int
	batchOperation()
}

// CreateOp appends a new item built from Draft.
type CreateOp struct {
	Draft     ItemDraft
	DependsOn []int
}

// UpdateOp patches the item with ItemID. Updates is the raw patch as
// received from callers; Patch is what the transaction applies.
type UpdateOp struct {
	ItemID    string
	Updates   map[string]any
	Patch     ItemPatch
	DependsOn []int
}

// DeleteOp removes the item with ItemID.
type DeleteOp struct {
	ItemID    string
	DependsOn []int
}

// SearchOp reads matching items from the working collection.
type SearchOp struct {
	Query     SearchQuery
	DependsOn []int
}

func (CreateOp) Kind() OperationKind { return OpCreate }
func (UpdateOp) Kind() OperationKind { return OpUpdate }
func (DeleteOp) Kind() OperationKind { return OpDelete }
func (SearchOp) Kind() OperationKind { return OpSearch }

func (o CreateOp) Dependencies() []int { return o.DependsOn }
func (o UpdateOp) Dependencies() []int { return o.DependsOn }
func (o DeleteOp) Dependencies() []int { return o.DependsOn }
func (o SearchOp) Dependencies() []int { return o.DependsOn }

func (CreateOp) batchOperation() {}
func (UpdateOp) batchOperation() {}
func (DeleteOp) batchOperation() {}
func (SearchOp) batchOperation() {}

// SearchQuery selects items by text and filters.
type SearchQuery struct {
	Text         string
	Type         ItemType
	CategoryID   string
	Completed    *bool
	TitlePattern string
	Limit        int
}

// OperationOutput is the recorded result of one executed operation.
type OperationOutput struct {
	Kind      OperationKind
	Item      *Item
	Items     []Item
	DeletedID string
}

// Lookup resolves a field path against the output. Create and update
// outputs expose the item fields directly; search outputs expose "count",
// "items.<n>.<field>" and "first.<field>"; delete outputs expose "id".
func (o OperationOutput) Lookup(path string) (any, bool) {
	switch o.Kind {
	case OpCreate, OpUpdate:
		if o.Item == nil {
			return nil, false
		}
		return o.Item.Field(path)
	case OpDelete:
		if path == "id" {
			return o.DeletedID, true
		}
		return nil, false
	case OpSearch:
		head, rest, _ := strings.Cut(path, ".")
		switch head {
		case "count":
			return len(o.Items), rest == ""
		case "first":
			if len(o.Items) == 0 {
				return nil, false
			}
			if rest == "" {
				return o.Items[0].ID, true
			}
			return o.Items[0].Field(rest)
		case "items":
			idxStr, field, _ := strings.Cut(rest, ".")
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 || idx >= len(o.Items) {
				return nil, false
			}
			if field == "" {
				return o.Items[idx].ID, true
			}
			return o.Items[idx].Field(field)
		}
	}
	return nil, false
}

// lookupValue walks a dotted path through nested maps and slices.
func lookupValue(v any, path string) (any, bool) {
	if path == "" {
		return v, true
	}
	head, rest, _ := strings.Cut(path, ".")
	switch t := v.(type) {
	case map[string]any:
		next, ok := t[head]
		if !ok {
			return nil, false
		}
		return lookupValue(next, rest)
	case []any:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(t) {
			return nil, false
		}
		return lookupValue(t[idx], rest)
	case []string:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(t) || rest != "" {
			return nil, false
		}
		return t[idx], true
	default:
		return nil, false
	}
}

// StepStatus is the outcome of one program step.
type StepStatus string

// Available step statuses.
const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepResult reports one operation of a dependency program.
type StepResult struct {
	Index  int           `json:"index"`
	Kind   OperationKind `json:"kind"`
	Status StepStatus    `json:"status"`
	Item   *ItemRef      `json:"item,omitempty"`
	Count  int           `json:"count,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// ProgramResult is the outcome of a dependency program.
type ProgramResult struct {
	BulkOperationResult
	// Order is the resolved execution order as input indices.
	Order []int        `json:"order"`
	Steps []StepResult `json:"steps"`
}
