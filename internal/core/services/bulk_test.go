package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestBulkCreateItems_RenamesAndSkipsInvalid(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, newItem("x", "Study", domain.ItemTypeTodo, 10))
	svc := NewBulkService(env.engine)

	result, err := svc.BulkCreateItems(context.Background(), []domain.ItemDraft{
		todoDraft("Study"),
		todoDraft("Study"),
		{Type: "todo", CategoryID: "personal"},
		todoDraft("Read"),
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Committed)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Index)
	assert.Equal(t, "MissingField", result.Failures[0].Code)
	assert.Contains(t, result.Warnings, `renamed "Study" to "Study (1)" to avoid a duplicate title`)

	require.Len(t, result.Created, 3)
	assert.Equal(t, "Study (1)", result.Created[0].Title)
	assert.Equal(t, "Study (2)", result.Created[1].Title)
	assert.Equal(t, "Read", result.Created[2].Title)

	items := env.items(t)
	require.Len(t, items, 4)
	for _, item := range items[1:] {
		assert.Equal(t, true, item.Metadata[domain.MetaCreatedInBatch])
		assert.Equal(t, "id-1", item.Metadata[domain.MetaBatchID])
	}
}

func TestBulkCreateItems_TrimsToLimit(t *testing.T) {
	env := newTestEnv(t)
	drafts := make([]domain.ItemDraft, 101)
	for i := range drafts {
		drafts[i] = todoDraft(fmt.Sprintf("Task %d", i))
	}

	result, err := NewBulkService(env.engine).BulkCreateItems(context.Background(), drafts)

	require.NoError(t, err)
	assert.Equal(t, "101 items requested, only the first 100 were processed", result.Warnings[0])
	assert.Len(t, result.Created, 100)
	assert.Len(t, env.items(t), 100)
}

func TestBulkCreateItems_NothingValid(t *testing.T) {
	env := newTestEnv(t)

	result, err := NewBulkService(env.engine).BulkCreateItems(context.Background(), []domain.ItemDraft{
		{Title: "No type", CategoryID: "personal"},
		{Title: "Bad category", Type: "todo", CategoryID: "nope"},
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.FailureCount)
	assert.Equal(t, "InvalidCategory", result.Failures[1].Code)
	assert.Contains(t, result.Warnings, "no valid items to create")
	assert.Equal(t, 0, env.store.saves)
}

func TestBulkCreateItems_Empty(t *testing.T) {
	env := newTestEnv(t)

	result, err := NewBulkService(env.engine).BulkCreateItems(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "InvalidInput", result.Error)
}

func TestBulkDeleteItems_SafetyThreshold(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(120)...)
	svc := NewBulkService(env.engine)

	result, err := svc.BulkDeleteItems(context.Background(), domain.BulkRequest{SearchQuery: "delete all todos"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "SafetyThreshold", result.Error)
	assert.Contains(t, result.Warnings[0], "120 items matched")
	assert.Len(t, env.items(t), 120)

	result, err = svc.BulkDeleteItems(context.Background(), domain.BulkRequest{SearchQuery: "delete all todos confirm"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Deleted, 120)
	assert.Empty(t, env.items(t))
}

func TestBulkDeleteItems_ConfirmFlag(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(60)...)

	result, err := NewBulkService(env.engine).BulkDeleteItems(context.Background(),
		domain.BulkRequest{Type: domain.ItemTypeTodo, Confirm: true})

	require.NoError(t, err)
	assert.Equal(t, 60, result.SuccessCount)
	assert.Empty(t, env.items(t))
}

func TestBulkUpdateItems_TypeFilterSpellings(t *testing.T) {
	for _, typ := range []domain.ItemType{"todo", "todos", "Todo", " TODOS "} {
		t.Run(string(typ), func(t *testing.T) {
			env := newTestEnv(t)
			env.seed(t, append(manyTodos(3), newItem("n", "Note", domain.ItemTypeNote, 1))...)

			result, err := NewBulkService(env.engine).BulkUpdateItems(context.Background(),
				domain.BulkRequest{Type: typ}, map[string]any{"completed": true})

			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, 3, result.SuccessCount)
			assert.Empty(t, result.Error)
		})
	}
}

func TestBulkDeleteItems_UnknownTypeRefused(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(3)...)

	result, err := NewBulkService(env.engine).BulkDeleteItems(context.Background(),
		domain.BulkRequest{Type: "bogus"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "InvalidType", result.Error)
	assert.Zero(t, result.SuccessCount)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[len(result.Warnings)-1], "bogus")
	assert.Len(t, env.items(t), 3)
}

func TestBulkDeleteItems_Quantity(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(5)...)

	result, err := NewBulkService(env.engine).BulkDeleteItems(context.Background(),
		domain.BulkRequest{SearchQuery: "delete 3 tasks"})

	require.NoError(t, err)
	require.Len(t, result.Deleted, 3)
	assert.Equal(t, "todo-000", result.Deleted[0].ID)
	assert.Equal(t, []string{"Task 3", "Task 4"}, titlesOf(env.items(t)))
}

func TestBulkDeleteItems_EmptyScopeAndNoMatches(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(3)...)
	svc := NewBulkService(env.engine)

	result, err := svc.BulkDeleteItems(context.Background(), domain.BulkRequest{SearchQuery: "delete them"})
	require.NoError(t, err)
	assert.Equal(t, "EmptyScope", result.Error)

	result, err = svc.BulkDeleteItems(context.Background(), domain.BulkRequest{SearchQuery: "delete groceries"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Contains(t, result.Warnings, `no items matched "delete groceries"`)
	assert.Len(t, env.items(t), 3)
}

func TestBulkUpdateItems_Phrase(t *testing.T) {
	env := newTestEnv(t)
	done := newItem("b", "Call mum", domain.ItemTypeTodo, 3)
	done.Completed = true
	env.seed(t,
		newItem("a", "Pay rent", domain.ItemTypeTodo, 4),
		done,
		newItem("c", "Book flights", domain.ItemTypeTodo, 2),
		newItem("d", "Ideas", domain.ItemTypeNote, 1),
	)

	result, err := NewBulkService(env.engine).BulkUpdateItems(context.Background(),
		domain.BulkRequest{SearchQuery: "mark incomplete todos"},
		map[string]any{"completed": true})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Updated, 2)
	assert.Equal(t, "a", result.Updated[0].ID)
	assert.Equal(t, "c", result.Updated[1].ID)

	for _, item := range env.items(t) {
		assert.Equal(t, item.Type == domain.ItemTypeTodo, item.Completed, item.Title)
	}
}

func TestBulkUpdateItems_RollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(3)...)

	result, err := NewBulkService(env.engine).BulkUpdateItems(context.Background(),
		domain.BulkRequest{SearchQuery: "all todos"},
		map[string]any{"type": "event"})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.RolledBack)
	assert.Equal(t, 3, result.FailureCount)
	assert.Equal(t, "MissingEventTime", result.Failures[0].Code)
	assert.Empty(t, result.Updated)
	assert.Contains(t, result.Warnings, "transaction rolled back: high failure rate (0 succeeded, 3 failed)")
}

func TestBulkUpdateItems_NoValidFields(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, manyTodos(3)...)

	result, err := NewBulkService(env.engine).BulkUpdateItems(context.Background(),
		domain.BulkRequest{SearchQuery: "all todos"},
		map[string]any{"colour": "red"})

	require.NoError(t, err)
	assert.Equal(t, "InvalidInput", result.Error)
	assert.Contains(t, result.Warnings, `unknown update field "colour" ignored`)
	assert.Equal(t, 0, env.store.loads)
}
