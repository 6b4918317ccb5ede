package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(Config{
		Path:     filepath.Join(t.TempDir(), "yoldosh-test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreGetPutDelete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	// Absent key
	_, ok, err := store.Get(ctx, "search_history_guest")
	require.NoError(t, err)
	assert.False(t, ok)

	// Put then get
	require.NoError(t, store.Put(ctx, "search_history_guest", `[{"id":"1"}]`))
	val, ok, err := store.Get(ctx, "search_history_guest")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, val)

	// Overwrite
	require.NoError(t, store.Put(ctx, "search_history_guest", `[]`))
	val, ok, err = store.Get(ctx, "search_history_guest")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, val)

	// Delete, then delete again (no error)
	require.NoError(t, store.Delete(ctx, "search_history_guest"))
	_, ok, err = store.Get(ctx, "search_history_guest")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, store.Delete(ctx, "search_history_guest"))
}

func TestStoreKeysIsolated(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "search_history_user-a", `["a"]`))
	require.NoError(t, store.Put(ctx, "search_history_user-b", `["b"]`))

	val, ok, err := store.Get(ctx, "search_history_user-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["a"]`, val)

	require.NoError(t, store.Delete(ctx, "search_history_user-a"))
	_, ok, _ = store.Get(ctx, "search_history_user-b")
	assert.True(t, ok)
}

func TestWatcherFiresOnDeletion(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "yoldosh.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0o644))

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(dbPath, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// Give the watch loop a moment to establish.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.Remove(dbPath))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("deletion callback did not fire")
	}
}
