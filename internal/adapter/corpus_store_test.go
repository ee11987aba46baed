package adapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "mutok.dev/pkg/mutok/internal/model"
)

func newMemoryCorpus(t *testing.T) *SQLiteCorpusStore {
	t.Helper()

	store, err := OpenSQLiteCorpusStore(context.Background(), ":memory:", 8)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteCorpusStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCorpus(t)

	require.NoError(t, store.Insert(ctx, "123abc", []m.TokenIndex{0, 86, 99}))

	tokens, err := store.Get(ctx, "123abc")
	require.NoError(t, err)
	assert.Equal(t, []m.TokenIndex{0, 86, 99}, tokens)

	// Second read is served from the cache and is identical.
	again, err := store.Get(ctx, "123abc")
	require.NoError(t, err)
	assert.Equal(t, tokens, again)
}

func TestSQLiteCorpusStore_GetMissing(t *testing.T) {
	store := newMemoryCorpus(t)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestSQLiteCorpusStore_RowIDs(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCorpus(t)

	minIndex, err := store.MinIndex(ctx)
	require.NoError(t, err)
	assert.Zero(t, minIndex)

	require.NoError(t, store.Insert(ctx, "123abc", []m.TokenIndex{86}))
	require.NoError(t, store.Insert(ctx, "foobar", []m.TokenIndex{86, 5}))

	minIndex, err = store.MinIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), minIndex)

	maxIndex, err := store.MaxIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), maxIndex)

	file, err := store.GetByRowID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "123abc", file.Hash)
	assert.Equal(t, []m.TokenIndex{86}, file.Tokens)

	_, err = store.GetByRowID(ctx, 9)
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestSQLiteCorpusStore_Folds(t *testing.T) {
	ctx := context.Background()
	store := newMemoryCorpus(t)

	require.NoError(t, store.Insert(ctx, "123abc", []m.TokenIndex{86}))
	require.NoError(t, store.Insert(ctx, "foobar", []m.TokenIndex{86, 5}))

	hashes, err := store.HashesInFold(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, hashes)

	has, err := store.HasFoldAssignments(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.AddToFold(ctx, "foobar", 0))

	// A file belongs to exactly one fold.
	require.Error(t, store.AddToFold(ctx, "foobar", 1))

	// Only stored files can be assigned.
	require.Error(t, store.AddToFold(ctx, "does not exist", 0))

	unassigned, err := store.UnassignedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"123abc"}, unassigned)

	require.NoError(t, store.AddToFold(ctx, "123abc", 0))

	hashes, err = store.HashesInFold(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"foobar", "123abc"}, hashes)

	files, err := store.FilesInFold(ctx, 0)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, m.CorpusFile{Hash: "foobar", Tokens: []m.TokenIndex{86, 5}}, files[0])

	folds, err := store.FoldIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, folds)

	require.NoError(t, store.DestroyFoldAssignments(ctx))

	has, err = store.HasFoldAssignments(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestConnectCorpus_PersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := m.Path(filepath.Join(t.TempDir(), "vectors.sqlite3"))

	store, err := OpenSQLiteCorpusStore(ctx, path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, "abc", []m.TokenIndex{0, 1, 2, 99}))
	require.NoError(t, store.AddToFold(ctx, "abc", 3))
	require.NoError(t, store.Close())

	reopened, err := ConnectCorpus(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	files, err := reopened.FilesInFold(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []m.CorpusFile{{Hash: "abc", Tokens: []m.TokenIndex{0, 1, 2, 99}}}, files)
}
