package mutagens

import (
	"io"

	m "mutok.dev/pkg/mutok/internal/model"
)

// SampleDeletion picks a content token to delete.
//
// Campbell et al. 2014: a token was chosen at random from the input source
// file and deleted.
func SampleDeletion(seq *m.TokenSequence, _ TokenSource, rng m.RandSource) (m.Mutation, error) {
	position, err := seq.RandomContentIndex(rng)
	if err != nil {
		return m.Mutation{}, err
	}

	return m.NewDeletion(position), nil
}

// RenderDeletion writes every token of seq except the one at mutation.Position.
func RenderDeletion(w io.Writer, vocab m.Vocabulary, seq *m.TokenSequence, mutation m.Mutation) error {
	tw := newTokenWriter(w, vocab)

	for index, token := range seq.All() {
		if index == mutation.Position {
			continue
		}

		tw.token(token)
	}

	return tw.finish()
}
