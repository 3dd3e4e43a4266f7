package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_PutGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "session-a", KeyTheme)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "session-a", KeyTheme, []byte(`"cosmic"`)))
	require.NoError(t, store.Put(ctx, "session-a", KeyTheme, []byte(`"royal"`)))

	value, err := store.Get(ctx, "session-a", KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"royal"`, string(value))

	_, err = store.Get(ctx, "session-b", KeyTheme)
	assert.ErrorIs(t, err, ErrNotFound, "values are scoped by session")
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "session-a", KeyBackground, []byte("2")))
	require.NoError(t, store.Delete(ctx, "session-a", KeyBackground))
	require.NoError(t, store.Delete(ctx, "session-a", KeyBackground))

	_, err := store.Get(ctx, "session-a", KeyBackground)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_JSON(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	history := []int{3, 2, 1}
	require.NoError(t, store.PutJSON(ctx, "session-a", KeyFortuneHistory, history))

	var decoded []int
	require.NoError(t, store.GetJSON(ctx, "session-a", KeyFortuneHistory, &decoded))
	assert.Equal(t, history, decoded)

	require.NoError(t, store.Put(ctx, "session-a", KeyLastFortune, []byte("{broken")))
	var broken map[string]any
	err := store.GetJSON(ctx, "session-a", KeyLastFortune, &broken)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fortune.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "session-a", KeyTheme, []byte(`"nature"`)))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "session-a", KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, `"nature"`, string(value))
}

func TestSQLiteStore_ConcurrentWrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.PutJSON(ctx, "session-a", KeyBackground, i%3))
		}()
	}
	wg.Wait()

	var index int
	require.NoError(t, store.GetJSON(ctx, "session-a", KeyBackground, &index))
	assert.Contains(t, []int{0, 1, 2}, index)
	require.NoError(t, store.Ping(ctx))
}
