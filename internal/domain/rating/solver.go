package rating

import "math"

// Default estimator configuration constants.
const (
	defaultMaxIterations = 200
	defaultTolerance     = 1e-4
)

// Option applies a configuration option to the Solver.
type Option func(*Solver)

// WithMaxIterations caps the number of fixed-point iterations.
func WithMaxIterations(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithTolerance sets the convergence threshold on the per-competitor
// strength change between rounds.
func WithTolerance(tolerance float64) Option {
	return func(s *Solver) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

// Strengths maps competitor id to Bradley-Terry strength.
type Strengths map[string]float64

// Result carries the estimated strengths and solver diagnostics.
type Result struct {
	Strengths  Strengths
	Iterations int
	Converged  bool
}

// Solver estimates Bradley-Terry strengths via minorization-maximization
// fixed-point iteration. Under the model the probability of i beating j is
// s_i / (s_i + s_j).
type Solver struct {
	maxIterations int
	tolerance     float64
}

// NewSolver creates a solver with default configuration.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		maxIterations: defaultMaxIterations,
		tolerance:     defaultTolerance,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Solve estimates a strength per competitor from the tallied matrices.
// Every round reads only the previous round's strengths, then renormalizes
// so the strengths sum to the competitor count. A competitor with no
// counted comparisons keeps its current strength. The input matrices are
// never mutated.
func (s *Solver) Solve(ids []string, wins WinMatrix, comparisons ComparisonMatrix) Result {
	n := len(ids)
	strengths := make(Strengths, n)
	for _, id := range ids {
		strengths[id] = 1.0
	}
	if n <= 1 {
		return Result{Strengths: strengths, Iterations: 0, Converged: true}
	}

	for iter := 1; iter <= s.maxIterations; iter++ {
		next := make(Strengths, n)
		for _, id := range ids {
			var totalWins float64
			for _, other := range ids {
				if other == id {
					continue
				}
				totalWins += wins[id][other]
			}

			var denom float64
			for _, other := range ids {
				if other == id {
					continue
				}
				if c := comparisons[id][other]; c > 0 {
					denom += c / (strengths[id] + strengths[other])
				}
			}

			if denom > 0 {
				next[id] = totalWins / denom
			} else {
				next[id] = strengths[id]
			}
		}

		normalize(next, n)

		maxDelta := 0.0
		for _, id := range ids {
			if d := math.Abs(next[id] - strengths[id]); d > maxDelta {
				maxDelta = d
			}
		}
		strengths = next

		if maxDelta < s.tolerance {
			return Result{Strengths: strengths, Iterations: iter, Converged: true}
		}
	}

	return Result{Strengths: strengths, Iterations: s.maxIterations, Converged: false}
}

// normalize rescales strengths in place so they sum to n.
func normalize(s Strengths, n int) {
	var sum float64
	for _, v := range s {
		sum += v
	}
	if sum <= 0 {
		return
	}
	scale := float64(n) / sum
	for id := range s {
		s[id] *= scale
	}
}
