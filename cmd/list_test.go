package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"mutok.dev/pkg/mutok/internal/domain"
)

func TestListCmd(t *testing.T) {
	withVocabulary(t)
	wf := withMockWorkflow(t)

	wf.On("List", mock.Anything, domain.ListArgs{Corpus: "corpus.sqlite3"}).Return(nil).Once()

	_, err := runCommand(t, newListCmd(), "list", "corpus.sqlite3")
	require.NoError(t, err)
}

func TestListCmd_RequiresCorpus(t *testing.T) {
	withVocabulary(t)
	withMockWorkflow(t)

	_, err := runCommand(t, newListCmd(), "list")
	require.Error(t, err)
}
