// Package model defines the data structures for token mutation and window sampling.
package model

// TokenIndex is a vocabulary index. The corpus stores one byte per token.
type TokenIndex uint8

// MaxVocabularySize is the exclusive upper bound on vocabulary entries.
const MaxVocabularySize = 256

// Vocabulary maps token indices to display text.
//
// START and END are reserved indices bounding a tokenized program. Size is
// the number of entries, sentinels included.
type Vocabulary interface {
	ToText(index TokenIndex) string
	StartIndex() TokenIndex
	EndIndex() TokenIndex
	Size() int
}

// RandSource is the entropy a sampler consumes. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Path represents a file system path.
type Path string
