package types

import "errors"

// ErrInvalidOutcome is returned when an outcome string is not one of the
// known battle outcomes.
var ErrInvalidOutcome = errors.New("invalid battle outcome")
