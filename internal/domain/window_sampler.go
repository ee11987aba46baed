package domain

import (
	"fmt"
	"iter"

	m "mutok.dev/pkg/mutok/internal/model"
)

// WindowSampler slices a token vector into fixed length training windows.
//
// A vector of length L with window size S yields max(0, L-S) windows, one per
// start offset 0 <= start < L-S. The target of each window is
// vector[start+S], so start+S < L holds for every window produced.
type WindowSampler struct {
	vector []m.TokenIndex
	size   int
}

// NewWindowSampler returns a sampler over vector. size must be positive.
func NewWindowSampler(vector []m.TokenIndex, size int) (*WindowSampler, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrConfiguration, size)
	}

	return &WindowSampler{vector: vector, size: size}, nil
}

// Size returns the context length of every window.
func (s *WindowSampler) Size() int {
	return s.size
}

// Count returns how many windows All yields. Can be zero.
func (s *WindowSampler) Count() int {
	return max(0, len(s.vector)-s.size)
}

// Window returns the window starting at start.
func (s *WindowSampler) Window(start int) (m.Window, error) {
	end := start + s.size
	if start < 0 || end >= len(s.vector) {
		return m.Window{}, fmt.Errorf("%w: not %d < %d", ErrBoundsViolation, end, len(s.vector))
	}

	context := make([]m.TokenIndex, s.size)
	copy(context, s.vector[start:end])

	return m.Window{Context: context, Target: s.vector[end]}, nil
}

// All yields every window in start order. It can be ranged over repeatedly.
// A bounds violation is yielded once and ends the sequence.
func (s *WindowSampler) All() iter.Seq2[m.Window, error] {
	return func(yield func(m.Window, error) bool) {
		for start := range s.Count() {
			window, err := s.Window(start)
			if !yield(window, err) || err != nil {
				return
			}
		}
	}
}
