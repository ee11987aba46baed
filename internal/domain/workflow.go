package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"
	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/controller"
	"mutok.dev/pkg/mutok/internal/metrics"
	m "mutok.dev/pkg/mutok/internal/model"
	pkg "mutok.dev/pkg/mutok/pkg"
)

// DefaultMutationsPerKind is how many model-rejected mutations are scored per
// file and kind (Campbell et al. 2014).
const DefaultMutationsPerKind = 120

// attemptsPerMutation bounds the draws per kind when no explicit cap is set.
const attemptsPerMutation = 10

// EvaluateArgs contains the arguments for evaluating a model on one fold.
type EvaluateArgs struct {
	Corpus      m.Path
	Model       adapter.ModelAdapter
	Vocabulary  m.Vocabulary
	Fold        int
	Mutations   int
	MaxAttempts int
	Threads     int
	Seed        uint64
	Report      m.Path
}

// MutateArgs contains the arguments for rendering one random mutation.
type MutateArgs struct {
	Corpus     m.Path
	Vocabulary m.Vocabulary
	Hash       string
	Kind       m.MutationKind
	Seed       uint64
	Output     io.Writer
}

// WindowsArgs contains the arguments for printing training windows.
type WindowsArgs struct {
	Corpus     m.Path
	Vocabulary m.Vocabulary
	Fold       int
	Training   bool // cycle every fold except Fold
	WindowSize int
	Count      int
}

// ListArgs contains the arguments for listing a corpus.
type ListArgs struct {
	Corpus m.Path
}

// Workflow defines the mutok use cases.
type Workflow interface {
	Evaluate(ctx context.Context, args EvaluateArgs) error
	Mutate(ctx context.Context, args MutateArgs) error
	Windows(ctx context.Context, args WindowsArgs) error
	List(ctx context.Context, args ListArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore

	connector adapter.CorpusConnector
	ui        controller.UI
	metrics   *metrics.Metrics
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	connector adapter.CorpusConnector,
	ui controller.UI,
	metrics *metrics.Metrics,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		connector:       connector,
		ui:              ui,
		metrics:         metrics,
	}
}

// evaluation is the shared state of one Evaluate run.
type evaluation struct {
	args         EvaluateArgs
	maxAttempts  int
	corpus       adapter.CorpusStore
	mutagen      Mutagen
	orchestrator Orchestrator
	reports      pkg.FileSpill[m.Report]
	workDir      m.Path
}

func (w *workflow) Evaluate(ctx context.Context, args EvaluateArgs) error {
	if err := checkFold(args.Fold); err != nil {
		return err
	}

	if args.Mutations <= 0 {
		return fmt.Errorf("%w: mutations per kind must be positive, got %d", ErrConfiguration, args.Mutations)
	}

	maxAttempts := args.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = attemptsPerMutation * args.Mutations
	}

	threads := max(args.Threads, 1)
	seed := resolveSeed(args.Seed)

	corpus, err := w.openCorpus(ctx, args.Corpus)
	if err != nil {
		return err
	}
	defer closeCorpus(corpus)

	fingerprint, err := w.HashFile(ctx, args.Corpus)
	if err != nil {
		return fmt.Errorf("fingerprint corpus: %w", err)
	}

	hashes, err := corpus.HashesInFold(ctx, args.Fold)
	if err != nil {
		return fmt.Errorf("list fold %d: %w", args.Fold, err)
	}

	workDir, err := w.CreateTempDir(ctx, "mutok-eval-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer w.cleanupDir(ctx, workDir)

	reports, err := pkg.NewFileSpill[m.Report](string(workDir))
	if err != nil {
		return fmt.Errorf("create report spill: %w", err)
	}
	defer func() { _ = reports.Close() }()

	mutagen := NewMutagen(args.Vocabulary, WithMutagenMetrics(w.metrics))
	run := &evaluation{
		args:         args,
		maxAttempts:  maxAttempts,
		corpus:       corpus,
		mutagen:      mutagen,
		orchestrator: NewOrchestrator(w.SourceFSAdapter, args.Model, mutagen, w.metrics),
		reports:      reports,
		workDir:      workDir,
	}

	slog.Info("Starting evaluation", "corpus", args.Corpus, "sha256", fingerprint, "fold", args.Fold, "files", len(hashes),
		"mutations", args.Mutations, "maxAttempts", maxAttempts, "threads", threads, "seed", seed)

	if err := w.ui.Start(ctx, controller.WithEvaluateMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	w.ui.DisplayEvaluationStart(ctx, args.Fold, len(hashes), args.Mutations, threads)

	runErr := w.evaluateFiles(ctx, run, hashes, threads, seed)

	w.ui.Close(ctx)
	w.ui.Wait(ctx)

	if runErr != nil {
		return runErr
	}

	summary, err := summaryFromReports(args.Fold, len(hashes), reports)
	if err != nil {
		return fmt.Errorf("summarize reports: %w", err)
	}
	summary.Corpus = fingerprint

	w.ui.DisplaySummary(ctx, summary)

	if args.Report != "" {
		if err := w.SaveSummary(ctx, args.Report, summary); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
	}

	return nil
}

func (w *workflow) evaluateFiles(ctx context.Context, run *evaluation, hashes []string, threads int, seed uint64) error {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, hash := range hashes {
		group.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			return w.evaluateFile(gctx, run, hash, rng)
		})
	}

	return group.Wait()
}

func (w *workflow) evaluateFile(ctx context.Context, run *evaluation, hash string, rng m.RandSource) error {
	tokens, err := run.corpus.Get(ctx, hash)
	if err != nil {
		return fmt.Errorf("load %s: %w", hash, err)
	}

	seq, err := m.NewTokenSequence(hash, tokens, run.args.Vocabulary)
	if err != nil {
		w.skipFile(ctx, hash, err)
		return nil
	}

	for _, kind := range m.MutationKinds {
		err := w.evaluateKind(ctx, run, seq, kind, rng)
		if errors.Is(err, m.ErrPrecheck) || errors.Is(err, m.ErrEmptyContent) {
			w.skipFile(ctx, hash, err)
			return nil
		}

		if err != nil {
			return err
		}
	}

	w.ui.DisplayFileCompleted(ctx, hash)

	return nil
}

// evaluateKind draws mutations until the model rejected run.args.Mutations
// of them or the attempt cap is hit.
func (w *workflow) evaluateKind(ctx context.Context, run *evaluation, seq *m.TokenSequence, kind m.MutationKind, rng m.RandSource) error {
	scored := 0
	attempts := 0

	for scored < run.args.Mutations && attempts < run.maxAttempts {
		attempts++

		mutation, err := run.mutagen.Sample(kind, seq, rng)
		if err != nil {
			return err
		}

		report, err := run.orchestrator.TestMutation(ctx, run.workDir, seq, mutation)
		if err != nil {
			return err
		}

		if err := run.reports.Append(report); err != nil {
			return fmt.Errorf("spill report: %w", err)
		}

		w.ui.DisplayMutationResult(ctx, report)

		if !report.Accepted {
			scored++
		}
	}

	if scored < run.args.Mutations {
		slog.Warn("Attempt limit reached", "hash", seq.Hash(), "kind", kind, "scored", scored, "attempts", attempts)
	}

	return nil
}

func (w *workflow) skipFile(ctx context.Context, hash string, err error) {
	slog.Info("Skipping file", "hash", hash, "reason", err)
	w.ui.DisplayFileSkipped(ctx, hash, err)
}

func (w *workflow) Mutate(ctx context.Context, args MutateArgs) error {
	corpus, err := w.openCorpus(ctx, args.Corpus)
	if err != nil {
		return err
	}
	defer closeCorpus(corpus)

	tokens, err := corpus.Get(ctx, args.Hash)
	if err != nil {
		return fmt.Errorf("load %s: %w", args.Hash, err)
	}

	seq, err := m.NewTokenSequence(args.Hash, tokens, args.Vocabulary)
	if err != nil {
		return err
	}

	seed := resolveSeed(args.Seed)
	rng := rand.New(rand.NewPCG(seed, 0))
	mutagen := NewMutagen(args.Vocabulary, WithMutagenMetrics(w.metrics))

	mutation, err := mutagen.Sample(args.Kind, seq, rng)
	if err != nil {
		return err
	}

	slog.Info("Sampled mutation", "hash", args.Hash, "mutation", mutation.String(), "seed", seed)

	return mutagen.Render(args.Output, seq, mutation)
}

func (w *workflow) Windows(ctx context.Context, args WindowsArgs) error {
	if _, err := w.FileInfo(ctx, args.Corpus); err != nil {
		return fmt.Errorf("corpus %s: %w", args.Corpus, err)
	}

	var (
		cycler *FoldCycler
		err    error
	)

	if args.Training {
		cycler, err = ForTraining(w.connector, args.Corpus, args.Fold, args.WindowSize, WithCyclerMetrics(w.metrics))
	} else {
		cycler, err = ForEvaluation(w.connector, args.Corpus, args.Fold, args.WindowSize, WithCyclerMetrics(w.metrics))
	}

	if err != nil {
		return err
	}

	defer func() {
		if err := cycler.Close(); err != nil {
			slog.Error("Failed to close fold cycler", "error", err)
		}
	}()

	windows, err := cycler.Take(ctx, args.Count)
	if err != nil {
		return err
	}

	w.ui.DisplayWindows(ctx, windows, args.Vocabulary)

	return nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	corpus, err := w.openCorpus(ctx, args.Corpus)
	if err != nil {
		return err
	}
	defer closeCorpus(corpus)

	folds, err := corpus.FoldIDs(ctx)
	if err != nil {
		return fmt.Errorf("list folds: %w", err)
	}

	infos := make([]m.FoldInfo, 0, len(folds))
	for _, fold := range folds {
		hashes, err := corpus.HashesInFold(ctx, fold)
		if err != nil {
			return fmt.Errorf("list fold %d: %w", fold, err)
		}

		infos = append(infos, m.FoldInfo{Fold: fold, Files: len(hashes)})
	}

	w.ui.DisplayCorpus(ctx, infos)

	return nil
}

// openCorpus refuses to connect to a missing file, which sqlite would
// otherwise create empty.
func (w *workflow) openCorpus(ctx context.Context, path m.Path) (adapter.CorpusStore, error) {
	if _, err := w.FileInfo(ctx, path); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}

	corpus, err := w.connector(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}

	return corpus, nil
}

func closeCorpus(corpus adapter.CorpusStore) {
	if err := corpus.Close(); err != nil {
		slog.Error("Failed to close corpus", "error", err)
	}
}

func (w *workflow) cleanupDir(ctx context.Context, dir m.Path) {
	if err := w.RemoveAll(ctx, dir); err != nil {
		slog.Error("Failed to cleanup work dir", "dir", dir, "error", err)
	}
}

func resolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}

	return uint64(time.Now().UnixNano())
}
