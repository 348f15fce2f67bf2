package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func createTestItem(t *testing.T, title, typ, category string, extra ...string) domain.Item {
	t.Helper()
	args := append([]string{"--json", "item", "create", "--title", title, "--type", typ, "--category", category}, extra...)
	out, err := run(t, args...)
	require.NoError(t, err)

	var item domain.Item
	require.NoError(t, json.Unmarshal([]byte(out), &item))
	return item
}

func TestItemCmd_CreateAndSearch(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	item := createTestItem(t, "Buy milk", "todo", "home", "--priority", "high", "--due", "2026-10-21")
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, domain.PriorityHigh, item.Priority())
	require.NotNil(t, item.DueDate)

	out, err := run(t, "item", "search", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] Buy milk")
	assert.Contains(t, out, "todo/home")
	assert.Contains(t, out, "1 item(s)")
}

func TestItemCmd_CreateDuplicateTitleIsRenamed(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	createTestItem(t, "Study", "todo", "learning")
	second := createTestItem(t, "Study", "todo", "learning")
	assert.Equal(t, "Study (1)", second.Title)
}

func TestItemCmd_CreateRequiresFlags(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "item", "create", "--title", "No type")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestItemCmd_CreateEventWithoutTime(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "item", "create", "--title", "Dentist", "--type", "event", "--category", "health")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingEventTime)
}

func TestItemCmd_Update(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	item := createTestItem(t, "Laundry", "todo", "home")

	out, err := run(t, "item", "update", item.ID, "--set", "completed=true", "--set", "colour=blue")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Laundry")
	assert.Contains(t, out, "warning:")
}

func TestItemCmd_UpdateBadAssignment(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "item", "update", "some-id", "--set", "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemCmd_Delete(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	item := createTestItem(t, "Old note", "note", "personal")

	out, err := run(t, "item", "delete", item.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+item.ID)

	_, err = run(t, "item", "delete", item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCmd_SearchFilters(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	createTestItem(t, "Read Dune", "todo", "learning")
	createTestItem(t, "Read Emma", "todo", "learning", "--description", "classic")
	createTestItem(t, "Call mum", "todo", "personal")

	out, err := run(t, "item", "search", "--pattern", "Read *")
	require.NoError(t, err)
	assert.Contains(t, out, "2 item(s)")

	out, err = run(t, "item", "search", "--category", "personal")
	require.NoError(t, err)
	assert.Contains(t, out, "Call mum")
	assert.NotContains(t, out, "Read Dune")

	out, err = run(t, "item", "search", "--completed")
	require.NoError(t, err)
	assert.Contains(t, out, "No items found.")

	_, err = run(t, "item", "search", "--completed", "--open")
	assert.Error(t, err)
}

func TestItemCmd_FindAndDescribe(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	createTestItem(t, "Renew passport", "todo", "personal", "--description", "photos and application form")
	createTestItem(t, "Plan holiday", "goal", "personal")

	out, err := run(t, "item", "find", "Renew passport")
	require.NoError(t, err)
	assert.Contains(t, out, "Renew passport")

	out, err = run(t, "item", "describe", "passport", "application", "photos")
	require.NoError(t, err)
	assert.Contains(t, out, "Renew passport")
	assert.Contains(t, out, "score")

	_, err = run(t, "item", "find", "zebra crossing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  map[string]any
	}{
		{"string", []string{"title=New title"}, map[string]any{"title": "New title"}},
		{"bool", []string{"completed=true"}, map[string]any{"completed": true}},
		{"null clears", []string{"dueDate=null"}, map[string]any{"dueDate": nil}},
		{"json array", []string{`metadata={"tags":["a"]}`}, map[string]any{"metadata": map[string]any{"tags": []any{"a"}}}},
		{"equals in value", []string{"text=a=b"}, map[string]any{"text": "a=b"}},
		{"bad json kept as string", []string{"text=[oops"}, map[string]any{"text": "[oops"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.pairs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseAssignments([]string{"=value"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
