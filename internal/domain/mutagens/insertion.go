package mutagens

import (
	"io"

	m "mutok.dev/pkg/mutok/internal/model"
)

// SampleInsertion picks an insertion point and a random token.
//
// Campbell et al. 2014: a location in the source file was chosen at random
// and a random token was inserted there.
func SampleInsertion(seq *m.TokenSequence, tokens TokenSource, rng m.RandSource) (m.Mutation, error) {
	position, err := seq.RandomInsertionPoint(rng)
	if err != nil {
		return m.Mutation{}, err
	}

	return m.NewInsertion(position, tokens(rng)), nil
}

// RenderInsertion writes seq with the inserted token placed immediately
// before the token originally at mutation.Position. A position equal to
// seq.Len() appends after the last token.
func RenderInsertion(w io.Writer, vocab m.Vocabulary, seq *m.TokenSequence, mutation m.Mutation) error {
	tw := newTokenWriter(w, vocab)

	for index, token := range seq.All() {
		if index == mutation.Position {
			tw.token(mutation.Token)
		}

		tw.token(token)
	}

	if mutation.Position == seq.Len() {
		tw.token(mutation.Token)
	}

	return tw.finish()
}
