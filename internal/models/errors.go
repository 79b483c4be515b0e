package models

import "errors"

// Sentinel errors shared across packages
var (
	// ErrNotFound indicates a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrNoGames indicates the history provider returned no games at all for
	// the requested range. This is the only condition fatal to a run.
	ErrNoGames = errors.New("no games available")

	// ErrAlreadyGraded indicates an attempt to re-grade a pick with a
	// conflicting result
	ErrAlreadyGraded = errors.New("pick already graded with different result")

	// ErrUnsettledGame indicates a grading attempt against a game without
	// settled results
	ErrUnsettledGame = errors.New("game results not settled")
)
