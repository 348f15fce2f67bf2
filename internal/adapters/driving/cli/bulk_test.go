package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestBulkCmd_CreateFromFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "drafts.json", `[
		{"title": "Read", "type": "todo", "categoryId": "learning"},
		{"title": "Read", "type": "todo", "categoryId": "learning"},
		{"title": "Broken", "type": "spaceship", "categoryId": "learning"}
	]`)

	out, err := run(t, "bulk", "create", path)
	require.NoError(t, err)
	assert.Contains(t, out, "committed: 3 processed, 2 succeeded, 1 failed")
	assert.Contains(t, out, "created Read (1)")
	assert.Contains(t, out, "#2")
}

func TestBulkCmd_CreateFromStdin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetIn(strings.NewReader(`[{"title":"Stretch","type":"routine","categoryId":"health"}]`))
	out, err := run(t, "--json", "bulk", "create", "-")
	require.NoError(t, err)

	var result domain.BulkOperationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Created, 1)
	assert.Equal(t, "Stretch", result.Created[0].Title)
}

func TestBulkCmd_CreateBadJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "drafts.json", `{"title": "not an array"}`)
	_, err := run(t, "bulk", "create", path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBulkCmd_UpdateAndDelete(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	createTestItem(t, "Pay rent", "todo", "finance")
	createTestItem(t, "Pay phone bill", "todo", "finance")
	createTestItem(t, "Walk dog", "todo", "personal")

	out, err := run(t, "bulk", "update", "pay", "--set", "completed=true", "--category", "finance")
	require.NoError(t, err)
	assert.Contains(t, out, "2 succeeded")

	out, err = run(t, "bulk", "delete", "completed todos")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted Pay rent")
	assert.Contains(t, out, "deleted Pay phone bill")

	out, err = run(t, "item", "search")
	require.NoError(t, err)
	assert.Contains(t, out, "1 item(s)")
}

func TestBulkCmd_DeleteNoMatches(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	createTestItem(t, "Walk dog", "todo", "personal")

	out, err := run(t, "bulk", "delete", "completed todos")
	require.NoError(t, err)
	assert.Contains(t, out, "0 processed")
	assert.Contains(t, out, "no items matched")
}

func TestBulkCmd_SafetyThreshold(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var drafts []string
	for i := 0; i < 60; i++ {
		drafts = append(drafts, fmt.Sprintf(`{"title":"Note %d","type":"note","categoryId":"personal"}`, i))
	}
	path := writeTempFile(t, "drafts.json", "["+strings.Join(drafts, ",")+"]")
	_, err := run(t, "bulk", "create", path)
	require.NoError(t, err)

	out, err := run(t, "bulk", "delete", "all notes")
	require.NoError(t, err)
	assert.Contains(t, out, "refused (SafetyThreshold)")

	out, err = run(t, "bulk", "delete", "all notes", "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "60 succeeded")
}
