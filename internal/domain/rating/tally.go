// Package rating implements the pairwise-comparison rating engine: win
// tallying, Bradley-Terry strength estimation, and the mapping of strengths
// onto an Elo-style display scale.
package rating

import (
	"fmt"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
)

// WinMatrix holds directional win credit between competitors. A tie adds
// half a win in both directions.
type WinMatrix map[string]map[string]float64

// ComparisonMatrix counts matches per ordered pair of competitors. The
// counts are symmetric.
type ComparisonMatrix map[string]map[string]float64

// newMatrix builds a matrix with a zero entry for every ordered pair of
// distinct competitors, so downstream math never sees a missing key.
func newMatrix(ids []string) map[string]map[string]float64 {
	m := make(map[string]map[string]float64, len(ids))
	for _, id := range ids {
		row := make(map[string]float64, len(ids)-1)
		for _, other := range ids {
			if other == id {
				continue
			}
			row[other] = 0
		}
		m[id] = row
	}
	return m
}

// Tally aggregates match results into win and comparison matrices over the
// given competitor set. A result referencing a competitor outside the set
// fails fast rather than being skipped. Zero matches is valid input.
func Tally(ids []string, matches []model.MatchResult) (WinMatrix, ComparisonMatrix, error) {
	wins := WinMatrix(newMatrix(ids))
	comparisons := ComparisonMatrix(newMatrix(ids))

	for _, m := range matches {
		if _, ok := wins[m.ModelA]; !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, m.ModelA)
		}
		if _, ok := wins[m.ModelB]; !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, m.ModelB)
		}
		if m.ModelA == m.ModelB {
			return nil, nil, fmt.Errorf("%w: %q battles itself", ErrInvalidMatch, m.ModelA)
		}

		switch m.Outcome {
		case types.OutcomeModelA:
			wins[m.ModelA][m.ModelB]++
		case types.OutcomeModelB:
			wins[m.ModelB][m.ModelA]++
		case types.OutcomeTie:
			wins[m.ModelA][m.ModelB] += 0.5
			wins[m.ModelB][m.ModelA] += 0.5
		default:
			return nil, nil, fmt.Errorf("%w: %q", types.ErrInvalidOutcome, m.Outcome)
		}

		comparisons[m.ModelA][m.ModelB]++
		comparisons[m.ModelB][m.ModelA]++
	}

	return wins, comparisons, nil
}
