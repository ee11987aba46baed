package model

// Detection is one ranked location predicted by the model.
type Detection struct {
	Position int     `yaml:"position"`
	Score    float64 `yaml:"score"`
}

// Report is the outcome of presenting one mutated file to the model.
type Report struct {
	FileHash   string
	Mutation   Mutation
	Accepted   bool        // model judged the mutated file acceptable; not scored
	Detections []Detection // ranked, best first
	Rank       int         // 1-based rank of the mutated position, 0 if absent
}

// ReciprocalRank returns 1/Rank, or 0 when the position was never found.
func (r Report) ReciprocalRank() float64 {
	if r.Rank <= 0 {
		return 0
	}

	return 1 / float64(r.Rank)
}

// KindSummary aggregates reports for one mutation kind.
type KindSummary struct {
	Kind     MutationKind `yaml:"kind"`
	Attempts int          `yaml:"attempts"`
	Accepted int          `yaml:"accepted"`
	Scored   int          `yaml:"scored"`
	Found    int          `yaml:"found"`
	MRR      float64      `yaml:"mrr"`
}

// Summary aggregates an evaluation run.
type Summary struct {
	Corpus string        `yaml:"corpus_sha256,omitempty"`
	Fold   int           `yaml:"fold"`
	Files  int           `yaml:"files"`
	Kinds  []KindSummary `yaml:"kinds"`
}
