package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mutok.dev/pkg/mutok/internal/adapter"
	"mutok.dev/pkg/mutok/internal/domain"
	m "mutok.dev/pkg/mutok/internal/model"
)

// rebindEvaluateFlags points the config keys back at the shared evaluate command.
func rebindEvaluateFlags(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		bindFlagToConfig(evaluateCmd.Flags().Lookup(foldFlagName), evaluateFoldKey)
		bindFlagToConfig(evaluateCmd.Flags().Lookup(maxAttemptsFlagName), maxAttemptsKey)
		bindFlagToConfig(evaluateCmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)
		bindFlagToConfig(evaluateCmd.Flags().Lookup(reportFlagName), reportPathKey)
	})
}

func TestEvaluateCmd_PassesArguments(t *testing.T) {
	withVocabulary(t)
	rebindEvaluateFlags(t)
	wf := withMockWorkflow(t)

	var got domain.EvaluateArgs
	wf.On("Evaluate", mock.Anything, mock.AnythingOfType("domain.EvaluateArgs")).Run(func(args mock.Arguments) {
		got = args.Get(1).(domain.EvaluateArgs)
	}).Return(nil).Once()

	_, err := runCommand(t, newEvaluateCmd(),
		"evaluate", "corpus.sqlite3", "python3 model.py --gpu",
		"-k", "5", "--fold", "3", "--max-attempts", "40", "-p", "4", "--report", "summary.yaml")
	require.NoError(t, err)

	assert.Equal(t, m.Path("corpus.sqlite3"), got.Corpus)
	assert.Equal(t, 5, got.Mutations)
	assert.Equal(t, 3, got.Fold)
	assert.Equal(t, 40, got.MaxAttempts)
	assert.Equal(t, 4, got.Threads)
	assert.Equal(t, m.Path("summary.yaml"), got.Report)
	require.NotNil(t, got.Vocabulary)
	assert.Equal(t, 5, got.Vocabulary.Size())

	model, ok := got.Model.(*adapter.CommandModelAdapter)
	require.True(t, ok)
	assert.Equal(t, "python3 model.py --gpu", model.Descriptor())
}

func TestEvaluateCmd_Defaults(t *testing.T) {
	withVocabulary(t)
	rebindEvaluateFlags(t)
	wf := withMockWorkflow(t)

	wf.On("Evaluate", mock.Anything, mock.MatchedBy(func(args domain.EvaluateArgs) bool {
		return args.Mutations == domain.DefaultMutationsPerKind && args.Fold == 0 && args.Threads == 1
	})).Return(nil).Once()

	_, err := runCommand(t, newEvaluateCmd(), "evaluate", "corpus.sqlite3", "model")
	require.NoError(t, err)
}

func TestEvaluateCmd_Errors(t *testing.T) {
	withVocabulary(t)
	rebindEvaluateFlags(t)
	wf := withMockWorkflow(t)
	boom := errors.New("model exited with status 2")

	wf.On("Evaluate", mock.Anything, mock.Anything).Return(boom).Once()

	_, err := runCommand(t, newEvaluateCmd(), "evaluate", "corpus.sqlite3", "model")
	require.ErrorIs(t, err, boom)

	_, err = runCommand(t, newEvaluateCmd(), "evaluate", "corpus.sqlite3", "   ")
	require.ErrorIs(t, err, adapter.ErrInvalidModelDescriptor)

	_, err = runCommand(t, newEvaluateCmd(), "evaluate", "corpus.sqlite3")
	require.Error(t, err)
}
