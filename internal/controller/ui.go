// Package controller provides output adapters for displaying evaluation
// progress, corpus listings and training windows.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	m "mutok.dev/pkg/mutok/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeReport StartMode = iota
	ModeEvaluate
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithReportMode sets the UI to one-shot report output. This is the default.
func WithReportMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeReport
	}
}

// WithEvaluateMode sets the UI to live evaluation progress.
func WithEvaluateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEvaluate
	}
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying mutok output.
// Implementations can use different output methods (simple text, TUI, etc).
// Display methods may be called concurrently by evaluation workers.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayEvaluationStart(ctx context.Context, fold, files, mutationsPerKind, threads int)
	DisplayMutationResult(ctx context.Context, report m.Report)
	DisplayFileCompleted(ctx context.Context, hash string)
	DisplayFileSkipped(ctx context.Context, hash string, err error)
	DisplaySummary(ctx context.Context, summary m.Summary)
	DisplayCorpus(ctx context.Context, folds []m.FoldInfo)
	DisplayWindows(ctx context.Context, windows []m.Window, vocab m.Vocabulary)
}

// NewUI returns the interactive TUI when attached to a terminal and the
// plain SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
