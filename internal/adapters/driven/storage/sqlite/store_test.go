package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "lifeops.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(context.Background(), "k", []byte("v")))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	data, err := second.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}

func TestStore_GetMissing(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "lifeops.items")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_PutAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "lifeops.items", []byte(`{"version":1,"items":[]}`)))

	data, err := store.Get(ctx, "lifeops.items")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"items":[]}`, string(data))
}

func TestStore_PutOverwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "slot", []byte("one")))
	require.NoError(t, store.Put(ctx, "slot", []byte("two")))

	data, err := store.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestStore_UpdatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.Put(ctx, "slot", []byte("x")))

	at, err := store.UpdatedAt(ctx, "slot")
	require.NoError(t, err)
	assert.True(t, at.After(before))

	_, err = store.UpdatedAt(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
