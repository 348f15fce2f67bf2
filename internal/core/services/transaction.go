package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// CommitPolicy decides whether an executed transaction is persisted.
type CommitPolicy interface {
	Name() domain.CommitPolicyName
	ShouldCommit(successes, failures int) bool
}

// MajorityPolicy commits when successes outnumber failures. A batch with
// some failures can still commit; callers inspect the failure count.
type MajorityPolicy struct{}

// Name returns the policy name.
func (MajorityPolicy) Name() domain.CommitPolicyName { return domain.CommitMajority }

// ShouldCommit reports successes > failures.
func (MajorityPolicy) ShouldCommit(successes, failures int) bool {
	return successes > failures
}

// StrictPolicy commits only when every operation succeeded.
type StrictPolicy struct{}

// Name returns the policy name.
func (StrictPolicy) Name() domain.CommitPolicyName { return domain.CommitStrict }

// ShouldCommit reports failures == 0 with at least one success.
func (StrictPolicy) ShouldCommit(successes, failures int) bool {
	return failures == 0 && successes > 0
}

// PolicyFor returns the policy with the given name, defaulting to majority.
func PolicyFor(name domain.CommitPolicyName) CommitPolicy {
	if name == domain.CommitStrict {
		return StrictPolicy{}
	}
	return MajorityPolicy{}
}

// OpOutcome is the result of one operation of a transaction.
type OpOutcome struct {
	Op     domain.BatchOperation
	Output *domain.OperationOutput
	Err    error
}

// TxResult is the outcome of an executed transaction.
type TxResult struct {
	Outcomes  []OpOutcome
	Successes int
	Failures  int
	Committed bool
	Warnings  []string
}

// Hooks let callers intervene around each operation. Prepare may rewrite
// the operation just before it runs; returning an error fails it without
// running. After observes the outcome.
type Hooks struct {
	Prepare func(pos int, op domain.BatchOperation) (domain.BatchOperation, error)
	After   func(pos int, out *domain.OperationOutput, err error)
}

type txState int

const (
	txBuilding txState = iota
	txExecuted
)

// Transaction applies an ordered list of operations to one snapshot of the
// item collection. It moves from building to executed exactly once.
type Transaction struct {
	kind       string
	store      driven.ItemStore
	categories domain.CategorySet
	policy     CommitPolicy
	metrics    driven.MetricsRecorder
	now        func() time.Time
	newID      func() string

	state txState
	ops   []domain.BatchOperation
}

// Add appends an operation. It fails once the transaction has executed.
func (t *Transaction) Add(op domain.BatchOperation) error {
	if t.state != txBuilding {
		return domain.ErrTransactionExecuted
	}
	t.ops = append(t.ops, op)
	return nil
}

// Len returns the number of queued operations.
func (t *Transaction) Len() int {
	return len(t.ops)
}

// Execute runs every operation in order and then commits or discards.
func (t *Transaction) Execute(ctx context.Context) (*TxResult, error) {
	return t.ExecuteWith(ctx, Hooks{})
}

// ExecuteWith is Execute with per-operation hooks.
//
// All operations are attempted before the commit decision. The context is
// only consulted by the store when loading and saving.
func (t *Transaction) ExecuteWith(ctx context.Context, hooks Hooks) (*TxResult, error) {
	if t.state != txBuilding {
		return nil, domain.ErrTransactionExecuted
	}
	t.state = txExecuted

	result := &TxResult{Outcomes: make([]OpOutcome, 0, len(t.ops)), Warnings: []string{}}
	if len(t.ops) == 0 {
		return result, nil
	}

	start := time.Now()
	snapshot, err := t.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	working := snapshot.Clone()

	mutated := false
	for pos, op := range t.ops {
		var (
			out   *domain.OperationOutput
			opErr error
		)
		if hooks.Prepare != nil {
			var prepared domain.BatchOperation
			if prepared, opErr = hooks.Prepare(pos, op); opErr == nil {
				op = prepared
			}
		}
		if opErr == nil {
			var warnings []string
			out, warnings, opErr = t.apply(&working, op)
			result.Warnings = append(result.Warnings, warnings...)
		}

		if opErr != nil {
			result.Failures++
			logger.Debug("%s op %d (%s) failed: %v", t.kind, pos, opKind(op), opErr)
		} else {
			result.Successes++
			if out.Kind != domain.OpSearch {
				mutated = true
			}
		}
		result.Outcomes = append(result.Outcomes, OpOutcome{Op: op, Output: out, Err: opErr})
		if hooks.After != nil {
			hooks.After(pos, out, opErr)
		}
	}

	if t.policy.ShouldCommit(result.Successes, result.Failures) {
		if mutated {
			if err := t.store.Save(ctx, working); err != nil {
				return nil, fmt.Errorf("commit %s transaction: %w", t.kind, err)
			}
		}
		result.Committed = true
		logger.Debug("%s transaction committed (%d succeeded, %d failed)", t.kind, result.Successes, result.Failures)
	} else {
		msg := fmt.Sprintf("transaction rolled back: high failure rate (%d succeeded, %d failed)",
			result.Successes, result.Failures)
		result.Warnings = append(result.Warnings, msg)
		logger.Warn("%s %s", t.kind, msg)
	}

	t.metrics.ObserveBatch(t.kind, domain.BatchOutcome{
		Operations: len(t.ops),
		Successes:  result.Successes,
		Failures:   result.Failures,
		Committed:  result.Committed,
	}, time.Since(start))

	return result, nil
}

func (t *Transaction) apply(working *domain.Collection, op domain.BatchOperation) (*domain.OperationOutput, []string, error) {
	// Stored timestamps are UTC; items handed back must match them.
	now := t.now().UTC()

	switch o := op.(type) {
	case domain.CreateOp:
		item, err := BuildItem(o.Draft, t.categories)
		if err != nil {
			return nil, nil, err
		}
		item.ID = t.newID()
		item.CreatedAt = now
		item.UpdatedAt = now
		*working = append(*working, item)
		created := item.Clone()
		return &domain.OperationOutput{Kind: domain.OpCreate, Item: &created}, nil, nil

	case domain.UpdateOp:
		idx := working.IndexOf(o.ItemID)
		if idx < 0 {
			return nil, nil, fmt.Errorf("update %q: %w", o.ItemID, domain.ErrNotFound)
		}
		patch := o.Patch
		var warnings []string
		if patch.IsEmpty() && len(o.Updates) > 0 {
			var err error
			patch, warnings, err = ParsePatch(o.Updates)
			if err != nil {
				return nil, warnings, err
			}
		}
		updated := patch.Apply((*working)[idx], now)
		if err := ValidateItem(updated, t.categories); err != nil {
			return nil, warnings, err
		}
		(*working)[idx] = updated
		out := updated.Clone()
		return &domain.OperationOutput{Kind: domain.OpUpdate, Item: &out}, warnings, nil

	case domain.DeleteOp:
		idx := working.IndexOf(o.ItemID)
		if idx < 0 {
			return nil, nil, fmt.Errorf("delete %q: %w", o.ItemID, domain.ErrNotFound)
		}
		removed := (*working)[idx].Clone()
		*working = slices.Delete(*working, idx, idx+1)
		return &domain.OperationOutput{Kind: domain.OpDelete, Item: &removed, DeletedID: removed.ID}, nil, nil

	case domain.SearchOp:
		items, err := searchCollection(*working, o.Query)
		if err != nil {
			return nil, nil, err
		}
		return &domain.OperationOutput{Kind: domain.OpSearch, Items: items}, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: unsupported operation %T", domain.ErrInvalidInput, op)
	}
}

func opKind(op domain.BatchOperation) domain.OperationKind {
	if op == nil {
		return ""
	}
	return op.Kind()
}
