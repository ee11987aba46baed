// Package mutagens implements the token-level mutation operators.
//
// Each operator has a randomized Sample step, which picks a position inside
// the content bounds of a sequence, and a deterministic Render step, which
// writes the mutated program as space separated token text.
package mutagens

import (
	"bufio"
	"io"

	m "mutok.dev/pkg/mutok/internal/model"
)

// TokenSource draws a replacement or inserted token. Implementations must
// never return a sentinel index.
type TokenSource func(rng m.RandSource) m.TokenIndex

// VocabularyTokens returns a TokenSource drawing uniformly over every
// vocabulary index except START and END.
func VocabularyTokens(vocab m.Vocabulary) TokenSource {
	start := int(vocab.StartIndex())
	end := int(vocab.EndIndex())
	low, high := min(start, end), max(start, end)

	choices := vocab.Size() - 2
	if start == end {
		choices = vocab.Size() - 1
	}

	return func(rng m.RandSource) m.TokenIndex {
		index := rng.IntN(choices)
		// Shift past the sentinels in ascending order.
		if index >= low {
			index++
		}

		if index >= high && high != low {
			index++
		}

		return m.TokenIndex(index)
	}
}

// tokenWriter emits "text " per token and a final newline, remembering the
// first write error.
type tokenWriter struct {
	buf   *bufio.Writer
	vocab m.Vocabulary
	err   error
}

func newTokenWriter(w io.Writer, vocab m.Vocabulary) *tokenWriter {
	return &tokenWriter{buf: bufio.NewWriter(w), vocab: vocab}
}

func (tw *tokenWriter) token(index m.TokenIndex) {
	if tw.err != nil {
		return
	}

	if _, err := tw.buf.WriteString(tw.vocab.ToText(index)); err != nil {
		tw.err = err
		return
	}

	tw.err = tw.buf.WriteByte(' ')
}

func (tw *tokenWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}

	if err := tw.buf.WriteByte('\n'); err != nil {
		return err
	}

	return tw.buf.Flush()
}
