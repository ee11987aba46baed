package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/metrics"
	m "mutok.dev/pkg/mutok/internal/model"
)

// Orchestrator presents one mutated file to the model and records how the
// model ranked the mutated position.
type Orchestrator interface {
	TestMutation(ctx context.Context, workDir m.Path, seq *m.TokenSequence, mutation m.Mutation) (m.Report, error)
}

type orchestrator struct {
	fsAdapter    adapter.SourceFSAdapter
	modelAdapter adapter.ModelAdapter
	mutagen      Mutagen
	metrics      *metrics.Metrics
}

// NewOrchestrator constructs an Orchestrator that renders mutations with
// mutagen into temporary files and hands them to modelAdapter.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, modelAdapter adapter.ModelAdapter, mutagen Mutagen, metrics *metrics.Metrics) Orchestrator {
	return &orchestrator{
		fsAdapter:    fsAdapter,
		modelAdapter: modelAdapter,
		mutagen:      mutagen,
		metrics:      metrics,
	}
}

func (o *orchestrator) TestMutation(ctx context.Context, workDir m.Path, seq *m.TokenSequence, mutation m.Mutation) (m.Report, error) {
	if err := ctx.Err(); err != nil {
		return m.Report{}, err
	}

	report := m.Report{FileHash: seq.Hash(), Mutation: mutation}
	kind := string(mutation.Kind)

	path, err := o.fsAdapter.WriteTempFile(ctx, workDir, "mutation-*.txt", func(w io.Writer) error {
		return o.mutagen.Render(w, seq, mutation)
	})
	if err != nil {
		slog.Error("Failed to write mutated file", "hash", seq.Hash(), "mutation", mutation, "error", err)
		return m.Report{}, fmt.Errorf("failed to write mutated file: %w", err)
	}

	defer o.cleanup(ctx, path)

	okay, err := o.modelAdapter.IsOkay(ctx, path)
	if err != nil {
		o.metrics.RecordModelError("check")
		return m.Report{}, fmt.Errorf("model check %s: %w", path, err)
	}

	if okay {
		o.metrics.RecordVerdict(kind, "accepted")

		report.Accepted = true

		return report, nil
	}

	o.metrics.RecordVerdict(kind, "rejected")

	detections, err := o.modelAdapter.Detect(ctx, path)
	if err != nil {
		o.metrics.RecordModelError("detect")
		return m.Report{}, fmt.Errorf("model detect %s: %w", path, err)
	}

	report.Detections = detections
	report.Rank = rankOf(detections, mutation.Position)
	o.metrics.RecordRank(kind, report.ReciprocalRank())

	return report, nil
}

// rankOf returns the 1-based rank of the first detection at position, or 0.
func rankOf(detections []m.Detection, position int) int {
	for i, detection := range detections {
		if detection.Position == position {
			return i + 1
		}
	}

	return 0
}

func (o *orchestrator) cleanup(ctx context.Context, path m.Path) {
	if err := o.fsAdapter.Remove(ctx, path); err != nil {
		slog.Error("Failed to remove mutated file", "path", path, "error", err)
	}
}
