package rating

import (
	"fmt"
	"math"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
)

// Confidence saturates once a competitor has this many matches.
const defaultConfidenceSaturation = 100

// Record summarizes a competitor's match history. Ties count half a win
// toward the win rate.
type Record struct {
	Wins         int
	Losses       int
	Ties         int
	WinRate      float64
	Confidence   float64
	TotalMatches int
}

// BuildRecords computes a per-competitor record from match results. The
// confidence grows linearly with match count and saturates at saturation
// matches; saturation <= 0 selects the default of 100. Like Tally, a match
// referencing a competitor outside ids fails fast.
func BuildRecords(ids []string, matches []model.MatchResult, saturation int) (map[string]Record, error) {
	if saturation <= 0 {
		saturation = defaultConfidenceSaturation
	}

	records := make(map[string]Record, len(ids))
	for _, id := range ids {
		records[id] = Record{}
	}

	for _, m := range matches {
		a, okA := records[m.ModelA]
		b, okB := records[m.ModelB]
		if !okA {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, m.ModelA)
		}
		if !okB {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCompetitor, m.ModelB)
		}

		switch m.Outcome {
		case types.OutcomeModelA:
			a.Wins++
			b.Losses++
		case types.OutcomeModelB:
			b.Wins++
			a.Losses++
		case types.OutcomeTie:
			a.Ties++
			b.Ties++
		default:
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidOutcome, m.Outcome)
		}

		records[m.ModelA] = a
		records[m.ModelB] = b
	}

	for id, r := range records {
		r.TotalMatches = r.Wins + r.Losses + r.Ties
		if r.TotalMatches > 0 {
			r.WinRate = (float64(r.Wins) + 0.5*float64(r.Ties)) / float64(r.TotalMatches)
		}
		r.Confidence = math.Min(1.0, float64(r.TotalMatches)/float64(saturation))
		records[id] = r
	}

	return records, nil
}
