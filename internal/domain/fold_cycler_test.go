package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/adapter/mocks"
	m "mutok.dev/pkg/mutok/internal/model"
)

type countingConnector struct {
	store    adapter.CorpusStore
	err      error
	connects int
	path     m.Path
}

func (c *countingConnector) connect(_ context.Context, path m.Path) (adapter.CorpusStore, error) {
	c.connects++
	c.path = path

	if c.err != nil {
		return nil, c.err
	}

	return c.store, nil
}

func TestForEvaluation_CyclesForever(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockCorpusStore(t)
	store.On("HashesInFold", mock.Anything, 3).Return([]string{"a", "b"}, nil)
	store.On("Get", mock.Anything, "a").Return(tokens(0, 1, 2, 3), nil)
	store.On("Get", mock.Anything, "b").Return(tokens(5, 6, 7), nil)
	store.On("Close").Return(nil).Once()

	conn := &countingConnector{store: store}

	cycler, err := ForEvaluation(conn.connect, "corpus.sqlite3", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, conn.connects)

	windows, err := cycler.Take(ctx, 6)
	require.NoError(t, err)

	want := []m.Window{
		{Context: tokens(0, 1), Target: 2},
		{Context: tokens(1, 2), Target: 3},
		{Context: tokens(5, 6), Target: 7},
	}
	assert.Equal(t, append(want, want...), windows)
	assert.Equal(t, 1, conn.connects)
	assert.Equal(t, m.Path("corpus.sqlite3"), conn.path)

	require.NoError(t, cycler.Close())
	require.NoError(t, cycler.Close())

	_, err = cycler.Next(ctx)
	require.ErrorIs(t, err, ErrCyclerClosed)
}

func TestForTraining_SkipsExcludedFold(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockCorpusStore(t)

	for fold := 1; fold < DefaultFoldCount; fold++ {
		hashes := []string{}
		if fold == 2 {
			hashes = []string{"x"}
		}

		store.On("HashesInFold", mock.Anything, fold).Return(hashes, nil)
	}

	store.On("Get", mock.Anything, "x").Return(tokens(0, 4, 9), nil)
	store.On("Close").Return(nil)

	conn := &countingConnector{store: store}

	cycler, err := ForTraining(conn.connect, "corpus.sqlite3", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, cycler.Folds())

	windows, err := cycler.Take(ctx, 2)
	require.NoError(t, err)

	// Fold 2 holds the only file; the second window comes from the next cycle.
	assert.Equal(t, []m.Window{{Context: tokens(0, 4), Target: 9}, {Context: tokens(0, 4), Target: 9}}, windows)
	require.NoError(t, cycler.Close())
}

func TestFoldCycler_NoWindows(t *testing.T) {
	tests := []struct {
		name   string
		hashes []string
	}{
		{name: "empty fold", hashes: []string{}},
		{name: "short files", hashes: []string{"short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockCorpusStore(t)
			store.On("HashesInFold", mock.Anything, 5).Return(tt.hashes, nil)
			store.On("Get", mock.Anything, "short").Return(tokens(0, 1, 9), nil).Maybe()
			store.On("Close").Return(nil)

			conn := &countingConnector{store: store}

			cycler, err := ForEvaluation(conn.connect, "corpus.sqlite3", 5, 20)
			require.NoError(t, err)

			_, err = cycler.Next(context.Background())
			require.ErrorIs(t, err, ErrNoWindows)
			require.NoError(t, cycler.Close())
		})
	}
}

func TestFoldCycler_PropagatesCorpusErrors(t *testing.T) {
	boom := errors.New("database is locked")

	t.Run("connect", func(t *testing.T) {
		conn := &countingConnector{err: boom}

		cycler, err := ForEvaluation(conn.connect, "corpus.sqlite3", 0, 2)
		require.NoError(t, err)

		_, err = cycler.Next(context.Background())
		require.ErrorIs(t, err, boom)
		require.NoError(t, cycler.Close())
	})

	t.Run("list", func(t *testing.T) {
		store := mocks.NewMockCorpusStore(t)
		store.On("HashesInFold", mock.Anything, 0).Return(nil, boom)
		store.On("Close").Return(nil)

		cycler, err := ForEvaluation((&countingConnector{store: store}).connect, "corpus.sqlite3", 0, 2)
		require.NoError(t, err)

		_, err = cycler.Next(context.Background())
		require.ErrorIs(t, err, boom)
		require.NoError(t, cycler.Close())
	})

	t.Run("get", func(t *testing.T) {
		store := mocks.NewMockCorpusStore(t)
		store.On("HashesInFold", mock.Anything, 0).Return([]string{"a"}, nil)
		store.On("Get", mock.Anything, "a").Return(nil, boom)
		store.On("Close").Return(nil)

		cycler, err := ForEvaluation((&countingConnector{store: store}).connect, "corpus.sqlite3", 0, 2)
		require.NoError(t, err)

		_, err = cycler.Next(context.Background())
		require.ErrorIs(t, err, boom)
		require.NoError(t, cycler.Close())
	})
}

func TestFoldCycler_ContextCanceled(t *testing.T) {
	store := mocks.NewMockCorpusStore(t)
	store.On("Close").Return(nil)

	cycler, err := ForEvaluation((&countingConnector{store: store}).connect, "corpus.sqlite3", 0, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = cycler.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, cycler.Close())
}

func TestFoldCycler_CloseBeforeNext(t *testing.T) {
	conn := &countingConnector{}

	cycler, err := ForEvaluation(conn.connect, "corpus.sqlite3", 0, 2)
	require.NoError(t, err)

	require.NoError(t, cycler.Close())
	assert.Equal(t, 0, conn.connects)
}

func TestFoldCycler_Configuration(t *testing.T) {
	conn := &countingConnector{}

	for _, fold := range []int{-1, DefaultFoldCount} {
		_, err := ForEvaluation(conn.connect, "c", fold, 20)
		require.ErrorIs(t, err, ErrConfiguration)

		_, err = ForTraining(conn.connect, "c", fold, 20)
		require.ErrorIs(t, err, ErrConfiguration)
	}

	_, err := ForEvaluation(conn.connect, "c", 0, 0)
	require.ErrorIs(t, err, ErrConfiguration)

	cycler, err := ForEvaluation(conn.connect, "c", 9, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, cycler.Folds())
	assert.Equal(t, 20, cycler.WindowSize())
}
