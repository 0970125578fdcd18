package rating

import "errors"

// Sentinel errors for the rating engine.
var (
	// ErrUnknownCompetitor indicates a match result referenced a
	// competitor outside the active set.
	ErrUnknownCompetitor = errors.New("unknown competitor in match results")

	// ErrInvalidMatch indicates a structurally invalid match result.
	ErrInvalidMatch = errors.New("invalid match result")
)
