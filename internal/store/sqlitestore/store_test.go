package sqlitestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/equipt/internal/model"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipt.db")
	openTestStore(t, path)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestInitialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "equipt.db"))

	_, err := s.Insert(ctx, "Bench", 120)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Initialize(ctx))
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "initialize must not drop existing rows")
}

func TestInsert_AssignsDistinctIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "equipt.db"))

	var last int64
	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		id, err := s.Insert(ctx, "item", float64(i))
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d reused", id)
		assert.Greater(t, id, last)
		seen[id] = true
		last = id
	}
}

func TestSelectAll_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "equipt.db"))

	idA, err := s.Insert(ctx, "Dumbbells", 45.5)
	require.NoError(t, err)
	idB, err := s.Insert(ctx, "Bench", 120)
	require.NoError(t, err)

	items, err := s.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{
		{ID: idA, Name: "Dumbbells", Cost: 45.5},
		{ID: idB, Name: "Bench", Cost: 120},
	}, items)
}

func TestSelectAll_EmptyIsNonNil(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "equipt.db"))

	items, err := s.SelectAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDeleteAll_EmptiesTableAndNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "equipt.db"))

	_, err := s.Insert(ctx, "Mat", 20)
	require.NoError(t, err)
	last, err := s.Insert(ctx, "Rope", 15)
	require.NoError(t, err)

	require.NoError(t, s.DeleteAll(ctx))

	items, err := s.SelectAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	next, err := s.Insert(ctx, "Kettlebell", 60)
	require.NoError(t, err)
	assert.Greater(t, next, last)
}

func TestReopen_PersistsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "equipt.db")

	s1, err := Open(path)
	require.NoError(t, err)
	id, err := s1.Insert(ctx, "Bench", 120)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path)
	items, err := s2.SelectAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Item{{ID: id, Name: "Bench", Cost: 120}}, items)
}

func TestOperations_FailAfterClose(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "equipt.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Insert(ctx, "Bench", 1)
	assert.ErrorContains(t, err, "insert item")
	_, err = s.SelectAll(ctx)
	assert.ErrorContains(t, err, "select items")
	assert.ErrorContains(t, s.DeleteAll(ctx), "delete items")
}

func TestOpen_InvalidPath(t *testing.T) {
	// a directory cannot be opened as a database file
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
