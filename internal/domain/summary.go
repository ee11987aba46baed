package domain

import (
	m "mutok.dev/pkg/mutok/internal/model"
	pkg "mutok.dev/pkg/mutok/pkg"
)

// summaryFromReports folds spilled reports into per-kind totals. Kinds appear
// in MutationKinds order; accepted reports count as attempts but are not scored.
func summaryFromReports(fold, files int, reports pkg.FileSpill[m.Report]) (m.Summary, error) {
	kinds := make(map[m.MutationKind]*m.KindSummary, len(m.MutationKinds))
	sums := make(map[m.MutationKind]float64, len(m.MutationKinds))

	for _, kind := range m.MutationKinds {
		kinds[kind] = &m.KindSummary{Kind: kind}
	}

	err := reports.Range(func(_ uint64, report m.Report) error {
		ks, ok := kinds[report.Mutation.Kind]
		if !ok {
			return nil
		}

		ks.Attempts++
		if report.Accepted {
			ks.Accepted++
			return nil
		}

		ks.Scored++
		if report.Rank > 0 {
			ks.Found++
		}

		sums[report.Mutation.Kind] += report.ReciprocalRank()

		return nil
	})
	if err != nil {
		return m.Summary{}, err
	}

	summary := m.Summary{Fold: fold, Files: files}
	for _, kind := range m.MutationKinds {
		ks := kinds[kind]
		if ks.Scored > 0 {
			ks.MRR = sums[kind] / float64(ks.Scored)
		}

		summary.Kinds = append(summary.Kinds, *ks)
	}

	return summary, nil
}
