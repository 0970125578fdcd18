// Package dedupe tracks battles that have already received a vote.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records voted battle ids, providing the fast-path guard for the
// one-vote-per-battle rule. The store's atomic outcome write remains the
// authoritative check.
type Deduper interface {
	// SeenAndRecord atomically checks if the battle id was seen and
	// records it if not. Returns true if it was already seen, false if
	// it was newly recorded.
	SeenAndRecord(ctx context.Context, battleID string) bool

	// Unrecord removes a battle id from the seen set, allowing a retry.
	// Used when a vote was marked as seen but could not be handed off
	// (e.g., queue backpressure).
	Unrecord(ctx context.Context, battleID string)

	Size() int64
}

// node is a single entry in the guard's recency list.
type node struct {
	id   string
	next *node
}

// reset clears the node state for reuse.
func (n *node) reset() {
	n.id = ""
	n.next = nil
}

// voteGuard implements Deduper with an in-memory recency list.
// Bounded mode (maxSize > 0) evicts the oldest entry once full and reuses
// nodes through a sync.Pool; unbounded mode (maxSize <= 0) is a plain map.
type voteGuard struct {
	mu       sync.RWMutex
	seen     map[string]*node // battle id -> node in bounded mode, nil value in unbounded mode
	head     *node            // most recently recorded entry
	maxSize  int              // 0 or negative means unbounded
	size     atomic.Int64
	nodePool sync.Pool
}

// NewVoteGuard creates an in-memory vote guard with configuration options.
func NewVoteGuard(opts ...Option) Deduper {
	g := &voteGuard{
		maxSize: 50000, // default max size
	}

	// Apply all options
	for _, opt := range opts {
		opt(g)
	}

	g.seen = make(map[string]*node)

	if g.maxSize > 0 {
		g.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return g
}

// SeenAndRecord atomically checks if the battle id was seen and records it
// if not. Returns true if it was already seen, false if newly recorded.
func (g *voteGuard) SeenAndRecord(ctx context.Context, battleID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[battleID]; exists {
		return true
	}

	if g.maxSize > 0 {
		// Evict before adding so the bound is never exceeded.
		if len(g.seen) >= g.maxSize {
			g.evictOldest()
		}

		n := g.nodePool.Get().(*node)
		n.id = battleID
		n.next = g.head

		g.head = n
		g.seen[battleID] = n
	} else {
		g.seen[battleID] = nil
	}
	g.size.Add(1)
	return false
}

// Unrecord removes a battle id from the seen set, allowing a retry.
func (g *voteGuard) Unrecord(ctx context.Context, battleID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.maxSize > 0 {
		entry, exists := g.seen[battleID]
		if !exists {
			return
		}
		delete(g.seen, battleID)

		if g.head == entry {
			g.head = entry.next
		} else {
			current := g.head
			for current != nil && current.next != entry {
				current = current.next
			}
			if current != nil {
				current.next = entry.next
			}
		}

		entry.reset()
		g.nodePool.Put(entry)
		g.size.Add(-1)
		return
	}

	if _, exists := g.seen[battleID]; exists {
		delete(g.seen, battleID)
		g.size.Add(-1)
	}
}

// evictOldest removes the oldest recorded entry (tail of the list).
// Must be called with g.mu held.
func (g *voteGuard) evictOldest() {
	if len(g.seen) == 0 || g.head == nil {
		return
	}

	var prev *node
	current := g.head

	// Single entry: drop the head itself.
	if current.next == nil {
		delete(g.seen, current.id)
		current.reset()
		g.nodePool.Put(current)
		g.head = nil
		g.size.Add(-1)
		return
	}

	// Walk to the tail.
	for current.next != nil {
		prev = current
		current = current.next
	}

	if prev != nil {
		prev.next = nil
		delete(g.seen, current.id)
		current.reset()
		g.nodePool.Put(current)
		g.size.Add(-1)
	}
}

// Size returns the current number of recorded battle ids.
func (g *voteGuard) Size() int64 {
	return g.size.Load()
}
