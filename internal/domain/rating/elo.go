package rating

import "math"

// Display scale defaults (Elo-style).
const (
	defaultBaseRating  = 1500
	defaultRatingScale = 400
)

// MapperOption applies a configuration option to the Mapper.
type MapperOption func(*Mapper)

// WithBaseRating sets the rating assigned to the reference strength.
func WithBaseRating(base float64) MapperOption {
	return func(m *Mapper) {
		if base > 0 {
			m.base = base
		}
	}
}

// WithRatingScale sets how many rating points one order of magnitude of
// strength is worth.
func WithRatingScale(scale float64) MapperOption {
	return func(m *Mapper) {
		if scale > 0 {
			m.scale = scale
		}
	}
}

// Mapper converts Bradley-Terry strengths into integer display ratings.
// The reference strength maps to the base rating, and each factor of ten
// of strength above it is worth scale points. The mapping depends only on
// strength ratios, so rescaling all strengths leaves ratings unchanged.
type Mapper struct {
	base  float64
	scale float64
}

// NewMapper creates a mapper with the standard 1500/400 scale.
func NewMapper(opts ...MapperOption) *Mapper {
	m := &Mapper{
		base:  defaultBaseRating,
		scale: defaultRatingScale,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Reference returns the geometric mean of the strictly positive strengths,
// the anchor strength that maps onto the base rating.
func Reference(strengths Strengths) float64 {
	var logSum float64
	var count int
	for _, s := range strengths {
		if s > 0 {
			logSum += math.Log(s)
			count++
		}
	}
	if count == 0 {
		return 1.0
	}
	return math.Exp(logSum / float64(count))
}

// Rating maps one strength against a reference strength. Non-positive
// strengths degrade to the base rating rather than erroring.
func (m *Mapper) Rating(strength, reference float64) int {
	if strength <= 0 || reference <= 0 {
		return int(math.Round(m.base))
	}
	return int(math.Round(m.base + m.scale*math.Log10(strength/reference)))
}

// Ratings maps every strength onto the display scale against the shared
// geometric-mean reference.
func (m *Mapper) Ratings(strengths Strengths) map[string]int {
	reference := Reference(strengths)
	out := make(map[string]int, len(strengths))
	for id, s := range strengths {
		out[id] = m.Rating(s, reference)
	}
	return out
}
