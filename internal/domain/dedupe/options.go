// Package dedupe defines the interface for vote deduplication.
package dedupe

// Option applies a configuration option to the vote guard.
type Option func(*voteGuard)

// WithMaxSize sets the maximum number of battle ids to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(g *voteGuard) {
		g.maxSize = maxSize
	}
}
