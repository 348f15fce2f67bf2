package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestProgramCmd_Run(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "program.json", `[
		{"type": "update", "itemId": "${1.id}", "updates": {"title": "${1.title} done", "completed": true}},
		{"type": "create", "payload": {"title": "Laundry", "type": "todo", "categoryId": "home"}}
	]`)

	out, err := run(t, "program", "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "#1 create")
	assert.Contains(t, out, "#0 update")
	assert.Contains(t, out, "Laundry done")
	assert.Contains(t, out, "committed: 2 processed, 2 succeeded, 0 failed")
}

func TestProgramCmd_Cycle(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "program.json", `[
		{"type": "delete", "itemId": "${1.id}"},
		{"type": "delete", "itemId": "${0.id}"}
	]`)

	out, err := run(t, "program", "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "refused (CyclicDependency)")
}

func TestProgramCmd_Malformed(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeTempFile(t, "program.json", `[{"type": "teleport"}]`)
	_, err := run(t, "program", "run", path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProgramCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "program", "run", "/nonexistent/program.json")
	assert.Error(t, err)
}
