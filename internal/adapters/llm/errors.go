package llm

import "errors"

// Sentinel kinds for generation errors.
var (
	ErrEmptyModel  = errors.New("empty model id")
	ErrEmptyPrompt = errors.New("empty prompt")
)
