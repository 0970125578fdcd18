package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrInsufficientModels means fewer than two active models exist, so
	// there is nothing to battle or rank. Recoverable: add models.
	ErrInsufficientModels = errors.New("not enough active models")

	// ErrUnknownCategory means the category id is not configured.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoPrompts means the prompt pool for the requested category is empty.
	ErrNoPrompts = errors.New("no prompts available")
)
