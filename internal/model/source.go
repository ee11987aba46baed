package model

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrEmptySequence is returned when a token sequence has no tokens at all.
	ErrEmptySequence = errors.New("token sequence is empty")
	// ErrPrecheck is returned when an insertion point is requested from a
	// sequence that does not end with the END sentinel.
	ErrPrecheck = errors.New("token sequence does not end with the END sentinel")
	// ErrEmptyContent is returned when a sequence holds nothing but sentinels.
	ErrEmptyContent = errors.New("token sequence has no content between sentinels")
)

// TokenSequence is an immutable tokenized program.
type TokenSequence struct {
	hash        string
	tokens      []TokenIndex
	endsWithEnd bool
	firstIndex  int
	lastIndex   int
}

// NewTokenSequence copies tokens into a new TokenSequence tagged with hash.
// START and END are recognised positionally: START only at index 0, END
// only at the last index.
func NewTokenSequence(hash string, tokens []TokenIndex, vocab Vocabulary) (*TokenSequence, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%s: %w", hash, ErrEmptySequence)
	}

	owned := make([]TokenIndex, len(tokens))
	copy(owned, tokens)

	seq := &TokenSequence{
		hash:      hash,
		tokens:    owned,
		lastIndex: len(owned) - 1,
	}

	if owned[0] == vocab.StartIndex() {
		seq.firstIndex = 1
	}

	if owned[len(owned)-1] == vocab.EndIndex() {
		seq.endsWithEnd = true
		seq.lastIndex--
	}

	return seq, nil
}

// Hash returns the file identifier the sequence was loaded with.
func (s *TokenSequence) Hash() string {
	return s.hash
}

// Len returns the number of tokens, sentinels included.
func (s *TokenSequence) Len() int {
	return len(s.tokens)
}

// At returns the token at index i.
func (s *TokenSequence) At(i int) TokenIndex {
	return s.tokens[i]
}

// All iterates over (index, token) pairs in order.
func (s *TokenSequence) All() iter.Seq2[int, TokenIndex] {
	return func(yield func(int, TokenIndex) bool) {
		for i, token := range s.tokens {
			if !yield(i, token) {
				return
			}
		}
	}
}

// Tokens returns a copy of the underlying token vector.
func (s *TokenSequence) Tokens() []TokenIndex {
	out := make([]TokenIndex, len(s.tokens))
	copy(out, s.tokens)

	return out
}

// FirstIndex is the first content index (1 when the sequence starts with START).
func (s *TokenSequence) FirstIndex() int {
	return s.firstIndex
}

// LastIndex is the last content index (len-2 when the sequence ends with END).
func (s *TokenSequence) LastIndex() int {
	return s.lastIndex
}

// EndsWithEnd reports whether the last token is the END sentinel.
func (s *TokenSequence) EndsWithEnd() bool {
	return s.endsWithEnd
}

// RandomInsertionPoint draws uniformly from [FirstIndex, LastIndex+1].
func (s *TokenSequence) RandomInsertionPoint(rng RandSource) (int, error) {
	if !s.endsWithEnd {
		return 0, fmt.Errorf("%s: %w", s.hash, ErrPrecheck)
	}

	if err := s.checkContent(); err != nil {
		return 0, err
	}

	return randInclusive(rng, s.firstIndex, s.lastIndex+1), nil
}

// RandomContentIndex draws uniformly from [FirstIndex, LastIndex].
func (s *TokenSequence) RandomContentIndex(rng RandSource) (int, error) {
	if err := s.checkContent(); err != nil {
		return 0, err
	}

	return randInclusive(rng, s.firstIndex, s.lastIndex), nil
}

func (s *TokenSequence) checkContent() error {
	if s.firstIndex > s.lastIndex {
		return fmt.Errorf("%s: %w", s.hash, ErrEmptyContent)
	}

	return nil
}

func randInclusive(rng RandSource, low, high int) int {
	return low + rng.IntN(high-low+1)
}
