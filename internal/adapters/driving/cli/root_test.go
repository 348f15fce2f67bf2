package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config-dir", "verbose", "log-level", "log-file", "backend", "json"} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name))
		})
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	want := []string{"item", "bulk", "program", "routine", "sync", "config", "watch", "mcp", "version"}
	got := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		got[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "missing command %s", name)
	}
}

func TestRootCmd_WiresFromConfigDir(t *testing.T) {
	resetServices()
	defer resetServices()
	dir := t.TempDir()

	out, err := run(t, "--config-dir", dir, "--backend", "memory", "item", "search")
	require.NoError(t, err)
	assert.Contains(t, out, "No items found.")
	assert.NotNil(t, itemService)
	assert.NotNil(t, metricsRecorder)
}

func TestRootCmd_FileBackend(t *testing.T) {
	resetServices()
	defer resetServices()
	dir := t.TempDir()

	_, err := run(t, "--config-dir", dir, "--backend", "file",
		"item", "create", "--title", "Water plants", "--type", "todo", "--category", "home")
	require.NoError(t, err)
	require.NotNil(t, slotFile)
	assert.FileExists(t, slotFile.Path(domain.DefaultSlotKey))
}

func TestRootCmd_UnknownBackend(t *testing.T) {
	resetServices()
	defer resetServices()

	_, err := run(t, "--config-dir", t.TempDir(), "--backend", "tape", "item", "search")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRootCmd_ConfigSkipsEngine(t *testing.T) {
	resetServices()
	defer resetServices()

	_, err := run(t, "--config-dir", t.TempDir(), "config", "keys")
	require.NoError(t, err)
	assert.NotNil(t, settingsService)
	assert.Nil(t, itemService)
}
