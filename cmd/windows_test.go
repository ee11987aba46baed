package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mutok.dev/pkg/mutok/internal/domain"
)

func rebindWindowsFlags(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		bindFlagToConfig(windowsCmd.Flags().Lookup(windowSizeFlagName), windowSizeKey)
	})
}

func TestWindowsCmd_PassesArguments(t *testing.T) {
	withVocabulary(t)
	rebindWindowsFlags(t)
	wf := withMockWorkflow(t)

	wf.On("Windows", mock.Anything, mock.MatchedBy(func(args domain.WindowsArgs) bool {
		return args.Corpus == "corpus.sqlite3" &&
			args.Fold == 4 &&
			args.Count == 3 &&
			args.Training &&
			args.WindowSize == 8 &&
			args.Vocabulary != nil
	})).Return(nil).Once()

	_, err := runCommand(t, newWindowsCmd(), "windows", "corpus.sqlite3", "4", "-n", "3", "--training", "-w", "8")
	require.NoError(t, err)
}

func TestWindowsCmd_Defaults(t *testing.T) {
	withVocabulary(t)
	rebindWindowsFlags(t)
	wf := withMockWorkflow(t)

	wf.On("Windows", mock.Anything, mock.MatchedBy(func(args domain.WindowsArgs) bool {
		return args.Count == defaultWindowCount && !args.Training && args.WindowSize == defaultWindowSize
	})).Return(nil).Once()

	_, err := runCommand(t, newWindowsCmd(), "windows", "corpus.sqlite3", "0")
	require.NoError(t, err)
}

func TestWindowsCmd_BadFold(t *testing.T) {
	withVocabulary(t)
	rebindWindowsFlags(t)
	withMockWorkflow(t)

	_, err := runCommand(t, newWindowsCmd(), "windows", "corpus.sqlite3", "first")
	require.ErrorIs(t, err, domain.ErrConfiguration)
}
