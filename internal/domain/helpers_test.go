package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	m "mutok.dev/pkg/mutok/internal/model"
)

// digitVocab renders indices as decimal text; START=0, END=9.
type digitVocab struct{}

func (digitVocab) ToText(index m.TokenIndex) string { return strconv.Itoa(int(index)) }
func (digitVocab) StartIndex() m.TokenIndex { return 0 }
func (digitVocab) EndIndex() m.TokenIndex { return 9 }
func (digitVocab) Size() int { return 10 }

// fixedRand returns the same draw every time, clamped to n.
type fixedRand int

func (r fixedRand) IntN(n int) int { return min(int(r), n-1) }

func tokens(values ...int) []m.TokenIndex {
	out := make([]m.TokenIndex, len(values))
	for i, v := range values {
		out[i] = m.TokenIndex(v)
	}

	return out
}

func ramp(n int) []m.TokenIndex {
	out := make([]m.TokenIndex, n)
	for i := range out {
		out[i] = m.TokenIndex(i)
	}

	return out
}

func newSequence(t *testing.T, hash string, values ...int) *m.TokenSequence {
	t.Helper()

	seq, err := m.NewTokenSequence(hash, tokens(values...), digitVocab{})
	require.NoError(t, err)

	return seq
}
