package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "mutok.dev/pkg/mutok/internal/model"
	pkg "mutok.dev/pkg/mutok/pkg"
)

func TestSummaryFromReports(t *testing.T) {
	spill, err := pkg.NewFileSpill[m.Report](t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = spill.Close() })

	require.NoError(t, spill.AppendBatch([]m.Report{
		{FileHash: "a", Mutation: m.NewInsertion(1, 4), Rank: 1},
		{FileHash: "a", Mutation: m.NewInsertion(2, 4), Rank: 4},
		{FileHash: "a", Mutation: m.NewInsertion(3, 4), Accepted: true},
		{FileHash: "a", Mutation: m.NewDeletion(1), Rank: 0},
		{FileHash: "b", Mutation: m.NewDeletion(2), Rank: 2},
	}))

	summary, err := summaryFromReports(7, 2, spill)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Fold)
	assert.Equal(t, 2, summary.Files)
	require.Len(t, summary.Kinds, 3)

	insertion := summary.Kinds[0]
	assert.Equal(t, m.MutationInsertion, insertion.Kind)
	assert.Equal(t, 3, insertion.Attempts)
	assert.Equal(t, 1, insertion.Accepted)
	assert.Equal(t, 2, insertion.Scored)
	assert.Equal(t, 2, insertion.Found)
	assert.InDelta(t, (1+0.25)/2, insertion.MRR, 1e-12)

	deletion := summary.Kinds[1]
	assert.Equal(t, 2, deletion.Scored)
	assert.Equal(t, 1, deletion.Found)
	assert.InDelta(t, 0.25, deletion.MRR, 1e-12)

	assert.Equal(t, m.KindSummary{Kind: m.MutationSubstitution}, summary.Kinds[2])
}

func TestSummaryFromReports_Empty(t *testing.T) {
	spill, err := pkg.NewFileSpill[m.Report](t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = spill.Close() })

	summary, err := summaryFromReports(0, 0, spill)
	require.NoError(t, err)

	for _, kind := range summary.Kinds {
		assert.Zero(t, kind.MRR)
		assert.Zero(t, kind.Attempts)
	}
}
