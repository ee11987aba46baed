// Package domain contains the mutation, windowing and evaluation logic.
package domain

import (
	"fmt"
	"io"
	"strings"

	"mutok.dev/pkg/mutok/internal/domain/mutagens"
	"mutok.dev/pkg/mutok/internal/metrics"
	m "mutok.dev/pkg/mutok/internal/model"
)

// Mutagen samples random mutations of a token sequence and renders them.
type Mutagen interface {
	// Sample draws a mutation of the given kind. The position always lies
	// within the content bounds of seq.
	Sample(kind m.MutationKind, seq *m.TokenSequence, rng m.RandSource) (m.Mutation, error)

	// Render writes the mutated program as space separated token text with a
	// trailing space and newline. mutation must have been sampled from seq.
	Render(w io.Writer, seq *m.TokenSequence, mutation m.Mutation) error

	// RenderString renders into memory.
	RenderString(seq *m.TokenSequence, mutation m.Mutation) (string, error)
}

type operator struct {
	sample func(*m.TokenSequence, mutagens.TokenSource, m.RandSource) (m.Mutation, error)
	render func(io.Writer, m.Vocabulary, *m.TokenSequence, m.Mutation) error
}

var operators = map[m.MutationKind]operator{
	m.MutationInsertion:    {sample: mutagens.SampleInsertion, render: mutagens.RenderInsertion},
	m.MutationDeletion:     {sample: mutagens.SampleDeletion, render: mutagens.RenderDeletion},
	m.MutationSubstitution: {sample: mutagens.SampleSubstitution, render: mutagens.RenderSubstitution},
}

// MutagenOption configures a Mutagen.
type MutagenOption func(*mutagen)

// WithTokenSource replaces the uniform vocabulary token source.
func WithTokenSource(tokens mutagens.TokenSource) MutagenOption {
	return func(mg *mutagen) {
		mg.tokens = tokens
	}
}

// WithMutagenMetrics records sampled mutations.
func WithMutagenMetrics(metrics *metrics.Metrics) MutagenOption {
	return func(mg *mutagen) {
		mg.metrics = metrics
	}
}

type mutagen struct {
	vocab   m.Vocabulary
	tokens  mutagens.TokenSource
	metrics *metrics.Metrics
}

// NewMutagen creates a Mutagen over vocab. Inserted and substituted tokens
// are drawn uniformly from the non-sentinel vocabulary unless overridden.
func NewMutagen(vocab m.Vocabulary, options ...MutagenOption) Mutagen {
	mg := &mutagen{
		vocab:  vocab,
		tokens: mutagens.VocabularyTokens(vocab),
	}

	for _, option := range options {
		option(mg)
	}

	return mg
}

func (mg *mutagen) Sample(kind m.MutationKind, seq *m.TokenSequence, rng m.RandSource) (m.Mutation, error) {
	op, err := lookupOperator(kind)
	if err != nil {
		return m.Mutation{}, err
	}

	mutation, err := op.sample(seq, mg.tokens, rng)
	if err != nil {
		return m.Mutation{}, fmt.Errorf("sample %s: %w", kind, err)
	}

	mg.metrics.RecordMutation(string(kind))

	return mutation, nil
}

func (mg *mutagen) Render(w io.Writer, seq *m.TokenSequence, mutation m.Mutation) error {
	op, err := lookupOperator(mutation.Kind)
	if err != nil {
		return err
	}

	return op.render(w, mg.vocab, seq, mutation)
}

func (mg *mutagen) RenderString(seq *m.TokenSequence, mutation m.Mutation) (string, error) {
	var b strings.Builder
	if err := mg.Render(&b, seq, mutation); err != nil {
		return "", err
	}

	return b.String(), nil
}

func lookupOperator(kind m.MutationKind) (operator, error) {
	op, ok := operators[kind]
	if !ok {
		return operator{}, fmt.Errorf("%w: %q", ErrUnknownMutationKind, kind)
	}

	return op, nil
}
