package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrAlreadyVoted = errors.New("battle already voted")
)
