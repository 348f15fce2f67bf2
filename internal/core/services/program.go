package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
	"github.com/custodia-labs/lifeops/internal/logger"
)

// Ensure ProgramService implements the interface.
var _ driving.ProgramService = (*ProgramService)(nil)

var (
	// wholeRefPattern matches a value that is exactly one reference,
	// written "${0.id}" or "{0.id}".
	wholeRefPattern = regexp.MustCompile(`^\$?\{(\d+)\.([A-Za-z0-9_.]+)\}$`)

	// embeddedRefPattern matches "${0.title}" inside a longer string.
	embeddedRefPattern = regexp.MustCompile(`\$\{(\d+)\.([A-Za-z0-9_.]+)\}`)
)

// ProgramService runs dependency programs.
type ProgramService struct {
	engine *Engine
}

// NewProgramService creates a new program service.
func NewProgramService(engine *Engine) *ProgramService {
	return &ProgramService{engine: engine}
}

// ExecuteMultiOperation orders ops so every operation runs after the ones
// it references, substitutes live values and runs them in one transaction.
// Operations whose dependencies failed fail with domain.ErrDependencyFailed.
func (s *ProgramService) ExecuteMultiOperation(ctx context.Context, ops []domain.BatchOperation) (*domain.ProgramResult, error) {
	logger.Section("Multi Operation")
	result := &domain.ProgramResult{
		BulkOperationResult: *domain.NewBulkOperationResult(),
		Order:               []int{},
		Steps:               []domain.StepResult{},
	}
	if len(ops) == 0 {
		result.Refuse(fmt.Errorf("%w: no operations", domain.ErrInvalidInput))
		return result, nil
	}

	deps, err := dependencyGraph(ops)
	if err != nil {
		result.Refuse(err)
		return result, nil
	}
	order, err := topoSort(deps)
	if err != nil {
		logger.Debug("program rejected: %v", err)
		result.Refuse(err)
		return result, nil
	}
	result.Order = order
	logger.Debug("program order: %v", order)

	tx := s.engine.Begin("program")
	for _, idx := range order {
		if err := tx.Add(ops[idx]); err != nil {
			return nil, err
		}
	}

	outputs := make(map[int]domain.OperationOutput, len(ops))
	failed := make(map[int]bool)
	hooks := Hooks{
		Prepare: func(pos int, op domain.BatchOperation) (domain.BatchOperation, error) {
			idx := order[pos]
			for _, dep := range deps[idx] {
				if failed[dep] {
					return nil, fmt.Errorf("%w: operation %d", domain.ErrDependencyFailed, dep)
				}
			}
			resolved, err := substituteOp(op, outputs)
			if err != nil {
				return nil, err
			}
			if u, ok := resolved.(domain.UpdateOp); ok && u.Patch.IsEmpty() {
				patch, warnings, err := ParsePatch(u.Updates)
				for _, w := range warnings {
					result.Warn(fmt.Sprintf("operation %d: %s", idx, w))
				}
				if err != nil {
					return nil, err
				}
				u.Patch = patch
				resolved = u
			}
			return resolved, nil
		},
		After: func(pos int, out *domain.OperationOutput, err error) {
			idx := order[pos]
			if err != nil {
				failed[idx] = true
				return
			}
			outputs[idx] = *out
		},
	}

	txr, err := tx.ExecuteWith(ctx, hooks)
	if err != nil {
		return nil, err
	}
	foldTx(&result.BulkOperationResult, txr, order)

	for pos, oc := range txr.Outcomes {
		step := domain.StepResult{Index: order[pos], Kind: ops[order[pos]].Kind(), Status: domain.StepSucceeded}
		switch {
		case oc.Err != nil:
			step.Status = domain.StepFailed
			step.Error = oc.Err.Error()
		case oc.Output.Kind == domain.OpSearch:
			step.Count = len(oc.Output.Items)
		case oc.Output.Item != nil:
			ref := domain.RefOf(*oc.Output.Item)
			step.Item = &ref
		}
		result.Steps = append(result.Steps, step)
	}
	sort.Slice(result.Steps, func(i, j int) bool { return result.Steps[i].Index < result.Steps[j].Index })
	return result, nil
}

// dependencyGraph returns, for each operation, the sorted indices of the
// operations it depends on through references or explicit dependsOn.
func dependencyGraph(ops []domain.BatchOperation) ([][]int, error) {
	deps := make([][]int, len(ops))
	for i, op := range ops {
		seen := map[int]bool{}
		add := func(j int) error {
			if j < 0 || j >= len(ops) {
				return fmt.Errorf("%w: operation %d references operation %d", domain.ErrInvalidReference, i, j)
			}
			if j == i {
				return fmt.Errorf("%w: operation %d references itself", domain.ErrCyclicDependency, i)
			}
			seen[j] = true
			return nil
		}

		for _, j := range op.Dependencies() {
			if err := add(j); err != nil {
				return nil, err
			}
		}
		for _, s := range operandStrings(op) {
			for _, j := range referencedOps(s) {
				if err := add(j); err != nil {
					return nil, err
				}
			}
		}

		for j := range seen {
			deps[i] = append(deps[i], j)
		}
		sort.Ints(deps[i])
	}
	return deps, nil
}

// topoSort orders operations depth first so dependencies come first; ties
// keep input order. A back edge is a cycle.
func topoSort(deps [][]int) ([]int, error) {
	const (
		white = iota
		grey
		black
	)
	colour := make([]int, len(deps))
	order := make([]int, 0, len(deps))

	var visit func(i int, path []int) error
	visit = func(i int, path []int) error {
		switch colour[i] {
		case grey:
			cycle := append(path, i)
			return fmt.Errorf("%w: %s", domain.ErrCyclicDependency, formatPath(cycle))
		case black:
			return nil
		}
		colour[i] = grey
		for _, j := range deps[i] {
			if err := visit(j, append(path[:len(path):len(path)], i)); err != nil {
				return err
			}
		}
		colour[i] = black
		order = append(order, i)
		return nil
	}

	for i := range deps {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, " -> ")
}

// referencedOps returns the operation indices referenced by s.
func referencedOps(s string) []int {
	var out []int
	if m := wholeRefPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return append(out, n)
	}
	for _, m := range embeddedRefPattern.FindAllStringSubmatch(s, -1) {
		n, _ := strconv.Atoi(m[1])
		out = append(out, n)
	}
	return out
}

// operandStrings returns every string operand of op that may hold a
// reference.
func operandStrings(op domain.BatchOperation) []string {
	var out []string
	switch o := op.(type) {
	case domain.CreateOp:
		for _, p := range o.Draft.StringFields() {
			out = append(out, *p)
		}
		out = collectStrings(o.Draft.Metadata, out)
	case domain.UpdateOp:
		out = append(out, o.ItemID)
		out = collectStrings(o.Updates, out)
	case domain.DeleteOp:
		out = append(out, o.ItemID)
	case domain.SearchOp:
		out = append(out, o.Query.Text, o.Query.CategoryID, o.Query.TitlePattern)
	}
	return out
}

func collectStrings(v any, out []string) []string {
	switch t := v.(type) {
	case string:
		return append(out, t)
	case map[string]any:
		for _, val := range t {
			out = collectStrings(val, out)
		}
	case []any:
		for _, val := range t {
			out = collectStrings(val, out)
		}
	case []string:
		out = append(out, t...)
	}
	return out
}

// substituteOp returns a copy of op with every reference replaced by the
// referenced operation's recorded output.
func substituteOp(op domain.BatchOperation, outputs map[int]domain.OperationOutput) (domain.BatchOperation, error) {
	r := refResolver{outputs: outputs}

	switch o := op.(type) {
	case domain.CreateOp:
		draft := o.Draft
		for name, p := range draft.StringFields() {
			v, err := r.str(*p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			*p = v
		}
		if draft.Metadata != nil {
			m, err := r.value(draft.Metadata)
			if err != nil {
				return nil, err
			}
			draft.Metadata = m.(map[string]any)
		}
		o.Draft = draft
		return o, nil

	case domain.UpdateOp:
		id, err := r.str(o.ItemID)
		if err != nil {
			return nil, fmt.Errorf("itemId: %w", err)
		}
		o.ItemID = id
		if o.Updates != nil {
			m, err := r.value(o.Updates)
			if err != nil {
				return nil, err
			}
			o.Updates = m.(map[string]any)
		}
		return o, nil

	case domain.DeleteOp:
		id, err := r.str(o.ItemID)
		if err != nil {
			return nil, fmt.Errorf("itemId: %w", err)
		}
		o.ItemID = id
		return o, nil

	case domain.SearchOp:
		q := o.Query
		for _, p := range []*string{&q.Text, &q.CategoryID, &q.TitlePattern} {
			v, err := r.str(*p)
			if err != nil {
				return nil, err
			}
			*p = v
		}
		o.Query = q
		return o, nil
	}
	return op, nil
}

type refResolver struct {
	outputs map[int]domain.OperationOutput
}

func (r refResolver) lookup(idxStr, path string) (any, error) {
	idx, _ := strconv.Atoi(idxStr)
	out, ok := r.outputs[idx]
	if !ok {
		return nil, fmt.Errorf("%w: operation %d has no output", domain.ErrInvalidReference, idx)
	}
	v, ok := out.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: operation %d has no field %q", domain.ErrInvalidReference, idx, path)
	}
	return v, nil
}

// value substitutes references in a string, map or slice. A string that is
// exactly one reference takes the referenced value's type.
func (r refResolver) value(v any) (any, error) {
	switch t := v.(type) {
	case string:
		if m := wholeRefPattern.FindStringSubmatch(t); m != nil {
			return r.lookup(m[1], m[2])
		}
		return r.interpolate(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			sub, err := r.value(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = sub
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			sub, err := r.value(val)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}

// str substitutes references in a string field.
func (r refResolver) str(s string) (string, error) {
	v, err := r.value(s)
	if err != nil {
		return "", err
	}
	if str, ok := v.(string); ok {
		return str, nil
	}
	return fmt.Sprint(v), nil
}

func (r refResolver) interpolate(s string) (string, error) {
	var firstErr error
	out := embeddedRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := embeddedRefPattern.FindStringSubmatch(match)
		v, err := r.lookup(m[1], m[2])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return fmt.Sprint(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
