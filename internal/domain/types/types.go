// Package types contains common types used across the application
package types

import "fmt"

// Outcome is a voter's verdict on a single battle.
type Outcome string

// Battle outcomes as they appear on the wire.
const (
	OutcomeModelA Outcome = "model_a"
	OutcomeModelB Outcome = "model_b"
	OutcomeTie    Outcome = "tie"
)

// ParseOutcome converts a wire string into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
	return o, nil
}

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeModelA, OutcomeModelB, OutcomeTie:
		return true
	}
	return false
}

// Scope identifies a rating partition. The zero value covers battles from
// every category; a non-empty Category narrows it to one category.
type Scope struct {
	Category string
}

// OverallScope returns the scope spanning all categories.
func OverallScope() Scope { return Scope{} }

// CategoryScope returns the scope covering a single category.
func CategoryScope(id string) Scope { return Scope{Category: id} }

// IsOverall reports whether the scope spans all categories.
func (s Scope) IsOverall() bool { return s.Category == "" }

// Key returns a stable identifier for the scope, usable as a storage or
// lock key.
func (s Scope) Key() string {
	if s.IsOverall() {
		return "overall"
	}
	return "category/" + s.Category
}

func (s Scope) String() string { return s.Key() }
