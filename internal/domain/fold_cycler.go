package domain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/metrics"
	m "mutok.dev/pkg/mutok/internal/model"
)

// DefaultFoldCount is the number of folds a corpus is partitioned into.
const DefaultFoldCount = 10

// FoldCyclerOption configures a FoldCycler.
type FoldCyclerOption func(*FoldCycler)

// WithCyclerMetrics records windows and completed cycles.
func WithCyclerMetrics(metrics *metrics.Metrics) FoldCyclerOption {
	return func(c *FoldCycler) {
		c.metrics = metrics
	}
}

// FoldCycler yields training windows forever by cycling
// folds -> files -> windows. The corpus is opened on the first Next and
// released by Close.
type FoldCycler struct {
	connector  adapter.CorpusConnector
	path       m.Path
	folds      []int
	windowSize int
	metrics    *metrics.Metrics

	corpus       adapter.CorpusStore
	closed       bool
	foldPos      int
	hashes       []string
	hashPos      int
	sampler      *WindowSampler
	next         int
	cycleWindows int
}

// ForTraining cycles every fold except excluded.
func ForTraining(connector adapter.CorpusConnector, path m.Path, excluded, windowSize int, options ...FoldCyclerOption) (*FoldCycler, error) {
	if err := checkFold(excluded); err != nil {
		return nil, err
	}

	folds := make([]int, 0, DefaultFoldCount-1)
	for fold := range DefaultFoldCount {
		if fold != excluded {
			folds = append(folds, fold)
		}
	}

	return newFoldCycler(connector, path, folds, windowSize, options)
}

// ForEvaluation cycles the single given fold.
func ForEvaluation(connector adapter.CorpusConnector, path m.Path, fold, windowSize int, options ...FoldCyclerOption) (*FoldCycler, error) {
	if err := checkFold(fold); err != nil {
		return nil, err
	}

	return newFoldCycler(connector, path, []int{fold}, windowSize, options)
}

func newFoldCycler(connector adapter.CorpusConnector, path m.Path, folds []int, windowSize int, options []FoldCyclerOption) (*FoldCycler, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrConfiguration, windowSize)
	}

	c := &FoldCycler{
		connector:  connector,
		path:       path,
		folds:      folds,
		windowSize: windowSize,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func checkFold(fold int) error {
	if fold < 0 || fold >= DefaultFoldCount {
		return fmt.Errorf("%w: fold %d not in [0, %d]", ErrConfiguration, fold, DefaultFoldCount-1)
	}

	return nil
}

// Folds returns the selected folds in ascending order.
func (c *FoldCycler) Folds() []int {
	return slices.Clone(c.folds)
}

// WindowSize returns the context length of the windows produced.
func (c *FoldCycler) WindowSize() int {
	return c.windowSize
}

// Next returns the next window. It never runs out on its own: after the last
// window of the last fold it starts over with the first fold.
func (c *FoldCycler) Next(ctx context.Context) (m.Window, error) {
	if c.closed {
		return m.Window{}, ErrCyclerClosed
	}

	if c.corpus == nil {
		corpus, err := c.connector(ctx, c.path)
		if err != nil {
			return m.Window{}, fmt.Errorf("open corpus %s: %w", c.path, err)
		}

		slog.Debug("fold cycler connected", "corpus", c.path, "folds", c.folds)
		c.corpus = corpus
	}

	for {
		if err := ctx.Err(); err != nil {
			return m.Window{}, err
		}

		if c.sampler != nil && c.next < c.sampler.Count() {
			window, err := c.sampler.Window(c.next)
			if err != nil {
				return m.Window{}, err
			}

			c.next++
			c.cycleWindows++
			c.metrics.RecordWindow()

			return window, nil
		}

		if err := c.advanceFile(ctx); err != nil {
			return m.Window{}, err
		}
	}
}

func (c *FoldCycler) advanceFile(ctx context.Context) error {
	for c.hashPos >= len(c.hashes) {
		if c.foldPos == len(c.folds) {
			if c.cycleWindows == 0 {
				return fmt.Errorf("%w: folds %v with window size %d", ErrNoWindows, c.folds, c.windowSize)
			}

			slog.Debug("fold cycle complete", "windows", c.cycleWindows)
			c.metrics.RecordFoldCycle()
			c.foldPos = 0
			c.cycleWindows = 0
		}

		fold := c.folds[c.foldPos]

		hashes, err := c.corpus.HashesInFold(ctx, fold)
		if err != nil {
			return fmt.Errorf("list fold %d: %w", fold, err)
		}

		c.foldPos++
		c.hashes = hashes
		c.hashPos = 0
	}

	hash := c.hashes[c.hashPos]
	c.hashPos++

	tokens, err := c.corpus.Get(ctx, hash)
	if err != nil {
		return fmt.Errorf("load %s: %w", hash, err)
	}

	sampler, err := NewWindowSampler(tokens, c.windowSize)
	if err != nil {
		return err
	}

	c.sampler = sampler
	c.next = 0

	return nil
}

// Take returns the next n windows.
func (c *FoldCycler) Take(ctx context.Context, n int) ([]m.Window, error) {
	windows := make([]m.Window, 0, max(n, 0))
	for range n {
		window, err := c.Next(ctx)
		if err != nil {
			return windows, err
		}

		windows = append(windows, window)
	}

	return windows, nil
}

// Close releases the corpus connection. Further calls to Next fail with
// ErrCyclerClosed.
func (c *FoldCycler) Close() error {
	c.closed = true
	if c.corpus == nil {
		return nil
	}

	err := c.corpus.Close()
	c.corpus = nil

	return err
}
