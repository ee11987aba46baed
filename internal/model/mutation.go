package model

import (
	"errors"
	"fmt"
)

// ErrUnknownMutationKind is returned for kinds outside the closed set.
var ErrUnknownMutationKind = errors.New("unknown mutation kind")

// MutationKind is the closed set of token-level edits.
type MutationKind string

const (
	// MutationInsertion inserts a token before Position.
	MutationInsertion MutationKind = "insertion"
	// MutationDeletion removes the token at Position.
	MutationDeletion MutationKind = "deletion"
	// MutationSubstitution replaces the token at Position.
	MutationSubstitution MutationKind = "substitution"
)

// MutationKinds lists every kind in evaluation order.
var MutationKinds = []MutationKind{MutationInsertion, MutationDeletion, MutationSubstitution}

// ParseMutationKind resolves a kind name. Short aliases are accepted.
func ParseMutationKind(name string) (MutationKind, error) {
	switch name {
	case "insertion", "insert", "addition", "add":
		return MutationInsertion, nil
	case "deletion", "delete", "del":
		return MutationDeletion, nil
	case "substitution", "substitute", "replace", "sub":
		return MutationSubstitution, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMutationKind, name)
}

// Mutation is a single token edit. Token is zero and unused for deletions.
type Mutation struct {
	Kind     MutationKind
	Position int
	Token    TokenIndex
}

// NewInsertion returns an insertion of token before position.
func NewInsertion(position int, token TokenIndex) Mutation {
	return Mutation{Kind: MutationInsertion, Position: position, Token: token}
}

// NewDeletion returns a deletion of the token at position.
func NewDeletion(position int) Mutation {
	return Mutation{Kind: MutationDeletion, Position: position}
}

// NewSubstitution returns a replacement of the token at position by token.
func NewSubstitution(position int, token TokenIndex) Mutation {
	return Mutation{Kind: MutationSubstitution, Position: position, Token: token}
}

func (m Mutation) String() string {
	if m.Kind == MutationDeletion {
		return fmt.Sprintf("%s@%d", m.Kind, m.Position)
	}

	return fmt.Sprintf("%s@%d(%d)", m.Kind, m.Position, m.Token)
}
