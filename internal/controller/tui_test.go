package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "mutok.dev/pkg/mutok/internal/model"
)

func update(t *testing.T, model evaluationModel, msg tea.Msg) (evaluationModel, tea.Cmd) {
	t.Helper()

	next, cmd := model.Update(msg)

	em, ok := next.(evaluationModel)
	require.True(t, ok)

	return em, cmd
}

func TestEvaluationModel_Counts(t *testing.T) {
	em := newEvaluationModel()

	em, _ = update(t, em, evaluationStartMsg{fold: 1, files: 4, perKind: 120, threads: 2})
	em, _ = update(t, em, mutationResultMsg{report: m.Report{FileHash: "a", Mutation: m.NewDeletion(1), Accepted: true}})
	em, _ = update(t, em, mutationResultMsg{report: m.Report{FileHash: "a", Mutation: m.NewDeletion(2), Rank: 1}})
	em, _ = update(t, em, mutationResultMsg{report: m.Report{FileHash: "a", Mutation: m.NewDeletion(3)}})
	em, _ = update(t, em, fileDoneMsg{hash: "a"})
	em, _ = update(t, em, fileDoneMsg{hash: "b", err: errors.New("no END")})

	assert.Equal(t, 1, em.accepted)
	assert.Equal(t, 2, em.scored)
	assert.Equal(t, 1, em.found)
	assert.Equal(t, 2, em.done)
	assert.Equal(t, 1, em.skipped)
	assert.InDelta(t, 0.5, em.ratio(), 1e-12)
	assert.Equal(t, "a deletion@3 -> not found", em.last)

	view := em.View()
	assert.Contains(t, view, "mutok evaluation")
	assert.Contains(t, view, "2/4 files")
	assert.Contains(t, view, "fold 1, 120 per kind, 2 worker(s)")
}

func TestEvaluationModel_Quit(t *testing.T) {
	em, cmd := update(t, newEvaluationModel(), finishedMsg{})
	assert.True(t, em.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	em, cmd = update(t, newEvaluationModel(), tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, em.quitting)
	require.NotNil(t, cmd)
}

func TestEvaluationModel_RatioWithoutFiles(t *testing.T) {
	assert.Zero(t, newEvaluationModel().ratio())
}

func TestTUI_FallsBackWithoutProgram(t *testing.T) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)

	tui := NewTUI(cmd)
	ctx := context.Background()

	require.NoError(t, tui.Start(ctx))
	tui.DisplayEvaluationStart(ctx, 0, 1, 2, 3)
	tui.DisplayFileCompleted(ctx, "abc")
	tui.Close(ctx)
	tui.Wait(ctx)

	assert.Contains(t, out.String(), "Evaluating fold 0")
	assert.Contains(t, out.String(), "Completed abc")
}
