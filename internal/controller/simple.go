package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "mutok.dev/pkg/mutok/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayEvaluationStart prints the run parameters.
func (s *SimpleUI) DisplayEvaluationStart(ctx context.Context, fold, files, mutationsPerKind, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Evaluating fold %d: %d file(s), %d mutations per kind, %d worker(s)\n", fold, files, mutationsPerKind, threads)
}

// DisplayMutationResult prints one line per model verdict.
func (s *SimpleUI) DisplayMutationResult(ctx context.Context, report m.Report) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s -> %s\n", shortHash(report.FileHash), report.Mutation, verdictLabel(report))
}

// DisplayFileCompleted prints a completed file.
func (s *SimpleUI) DisplayFileCompleted(ctx context.Context, hash string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Completed %s\n", shortHash(hash))
}

// DisplayFileSkipped prints a file that could not be mutated.
func (s *SimpleUI) DisplayFileSkipped(ctx context.Context, hash string, err error) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Skipped %s: %v\n", shortHash(hash), err)
}

// DisplaySummary prints the per-kind table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(summary))
}

// DisplayCorpus prints the number of files per fold.
func (s *SimpleUI) DisplayCorpus(ctx context.Context, folds []m.FoldInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s", renderCorpusTable(folds))
}

// DisplayWindows prints one window per line as context text, then the target.
func (s *SimpleUI) DisplayWindows(ctx context.Context, windows []m.Window, vocab m.Vocabulary) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, window := range windows {
		s.printf("%s\n", formatWindow(window, vocab))
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Kind", "Attempts", "Accepted", "Scored", "Found", "MRR"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, kind := range summary.Kinds {
		table.Append([]string{
			string(kind.Kind),
			fmt.Sprintf("%d", kind.Attempts),
			fmt.Sprintf("%d", kind.Accepted),
			fmt.Sprintf("%d", kind.Scored),
			fmt.Sprintf("%d", kind.Found),
			fmt.Sprintf("%.4f", kind.MRR),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Fold %d", summary.Fold), fmt.Sprintf("%d files", summary.Files), "", "", "", ""})
	table.Render()

	return tableBuffer.String()
}

func renderCorpusTable(folds []m.FoldInfo) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Fold", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	total := 0

	for _, fold := range folds {
		table.Append([]string{fmt.Sprintf("%d", fold.Fold), fmt.Sprintf("%d", fold.Files)})

		total += fold.Files
	}

	table.SetFooter([]string{fmt.Sprintf("Total Folds %d", len(folds)), fmt.Sprintf("%d", total)})
	table.Render()

	return tableBuffer.String()
}

func formatWindow(window m.Window, vocab m.Vocabulary) string {
	texts := make([]string, 0, len(window.Context))
	for _, index := range window.Context {
		texts = append(texts, vocab.ToText(index))
	}

	return strings.Join(texts, " ") + " => " + vocab.ToText(window.Target)
}

func verdictLabel(report m.Report) string {
	switch {
	case report.Accepted:
		return "accepted"
	case report.Rank > 0:
		return fmt.Sprintf("rank %d", report.Rank)
	default:
		return "not found"
	}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}

	return hash
}
