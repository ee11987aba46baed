package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	m "mutok.dev/pkg/mutok/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// TUI implements UI using Bubble Tea for live evaluation progress. Report
// mode output is plain tables, shared with SimpleUI.
type TUI struct {
	*SimpleUI

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd)}
}

// Start launches the progress view in evaluate mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)
	if cfg.mode != ModeEvaluate {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	program := tea.NewProgram(
		newEvaluationModel(),
		tea.WithContext(ctx),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithInput(nil),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Error("Progress view stopped", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close asks the progress view to render its final frame and exit.
func (t *TUI) Close(_ context.Context) {
	t.send(finishedMsg{})
}

// Wait blocks until the progress view has exited.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	select {
	case <-done:
	case <-ctx.Done():
	}

	t.mu.Lock()
	t.program = nil
	t.done = nil
	t.mu.Unlock()
}

// DisplayEvaluationStart sets the totals of the progress view.
func (t *TUI) DisplayEvaluationStart(ctx context.Context, fold, files, mutationsPerKind, threads int) {
	if !t.send(evaluationStartMsg{fold: fold, files: files, perKind: mutationsPerKind, threads: threads}) {
		t.SimpleUI.DisplayEvaluationStart(ctx, fold, files, mutationsPerKind, threads)
	}
}

// DisplayMutationResult updates the verdict counters.
func (t *TUI) DisplayMutationResult(ctx context.Context, report m.Report) {
	if !t.send(mutationResultMsg{report: report}) {
		t.SimpleUI.DisplayMutationResult(ctx, report)
	}
}

// DisplayFileCompleted advances the progress bar.
func (t *TUI) DisplayFileCompleted(ctx context.Context, hash string) {
	if !t.send(fileDoneMsg{hash: hash}) {
		t.SimpleUI.DisplayFileCompleted(ctx, hash)
	}
}

// DisplayFileSkipped advances the progress bar and counts the skip.
func (t *TUI) DisplayFileSkipped(ctx context.Context, hash string, err error) {
	if !t.send(fileDoneMsg{hash: hash, err: err}) {
		t.SimpleUI.DisplayFileSkipped(ctx, hash, err)
	}
}

func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

type evaluationStartMsg struct {
	fold    int
	files   int
	perKind int
	threads int
}

type mutationResultMsg struct {
	report m.Report
}

type fileDoneMsg struct {
	hash string
	err  error
}

type finishedMsg struct{}

// evaluationModel is the Bubble Tea model of a running evaluation.
type evaluationModel struct {
	progress progress.Model
	spinner  spinner.Model

	fold     int
	files    int
	perKind  int
	threads  int
	done     int
	skipped  int
	accepted int
	scored   int
	found    int
	last     string
	quitting bool
}

func newEvaluationModel() evaluationModel {
	return evaluationModel{
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (em evaluationModel) Init() tea.Cmd {
	return em.spinner.Tick
}

func (em evaluationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluationStartMsg:
		em.fold = msg.fold
		em.files = msg.files
		em.perKind = msg.perKind
		em.threads = msg.threads

		return em, nil

	case mutationResultMsg:
		switch {
		case msg.report.Accepted:
			em.accepted++
		case msg.report.Rank > 0:
			em.scored++
			em.found++
		default:
			em.scored++
		}

		em.last = fmt.Sprintf("%s %s -> %s", shortHash(msg.report.FileHash), msg.report.Mutation, verdictLabel(msg.report))

		return em, nil

	case fileDoneMsg:
		em.done++
		if msg.err != nil {
			em.skipped++
		}

		return em, nil

	case finishedMsg:
		em.quitting = true
		return em, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			em.quitting = true
			return em, tea.Quit
		}

		return em, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		em.spinner, cmd = em.spinner.Update(msg)

		return em, cmd
	}

	return em, nil
}

func (em evaluationModel) ratio() float64 {
	if em.files == 0 {
		return 0
	}

	return float64(em.done) / float64(em.files)
}

func (em evaluationModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mutok evaluation"))
	fmt.Fprintf(&b, " %s\n\n", faintStyle.Render(fmt.Sprintf("fold %d, %d per kind, %d worker(s)", em.fold, em.perKind, em.threads)))

	if !em.quitting {
		b.WriteString(em.spinner.View())
		b.WriteString(" ")
	}

	fmt.Fprintf(&b, "%s %d/%d files\n", em.progress.ViewAs(em.ratio()), em.done, em.files)
	fmt.Fprintf(&b, "  scored %s  found %s  accepted %s  skipped %s\n",
		countStyle.Render(fmt.Sprintf("%d", em.scored)),
		countStyle.Render(fmt.Sprintf("%d", em.found)),
		countStyle.Render(fmt.Sprintf("%d", em.accepted)),
		countStyle.Render(fmt.Sprintf("%d", em.skipped)))

	if em.last != "" {
		fmt.Fprintf(&b, "  %s\n", faintStyle.Render(em.last))
	}

	return b.String()
}
