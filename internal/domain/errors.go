package domain

import (
	"errors"

	m "mutok.dev/pkg/mutok/internal/model"
)

var (
	// ErrConfiguration is returned for invalid window sizes and fold numbers.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrBoundsViolation signals that a window would read past the end of its
	// vector. It means Count and the iteration bound disagree.
	ErrBoundsViolation = errors.New("window bounds violation")

	// ErrNoWindows is returned when a full pass over the selected folds
	// produced no window at all.
	ErrNoWindows = errors.New("selected folds produce no windows")

	// ErrCyclerClosed is returned by Next after Close.
	ErrCyclerClosed = errors.New("fold cycler is closed")

	// ErrUnknownMutationKind is returned for kinds outside the closed set.
	ErrUnknownMutationKind = m.ErrUnknownMutationKind
)
