package mutagens

import (
	"io"

	m "mutok.dev/pkg/mutok/internal/model"
)

// SampleSubstitution picks a content token and a random replacement.
//
// Campbell et al. 2014: a token was chosen at random and replaced with a
// random token.
func SampleSubstitution(seq *m.TokenSequence, tokens TokenSource, rng m.RandSource) (m.Mutation, error) {
	position, err := seq.RandomContentIndex(rng)
	if err != nil {
		return m.Mutation{}, err
	}

	return m.NewSubstitution(position, tokens(rng)), nil
}

// RenderSubstitution writes seq with the token at mutation.Position replaced.
func RenderSubstitution(w io.Writer, vocab m.Vocabulary, seq *m.TokenSequence, mutation m.Mutation) error {
	tw := newTokenWriter(w, vocab)

	for index, token := range seq.All() {
		if index == mutation.Position {
			token = mutation.Token
		}

		tw.token(token)
	}

	return tw.finish()
}
