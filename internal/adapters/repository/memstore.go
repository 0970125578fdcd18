// Package repository defines the arena store interfaces and errors.
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
	"github.com/chemarena/arena/pkg/metrics"
)

// MemoryStore is the default mutex-guarded, in-memory Store implementation.
// The model catalog is seeded at construction; battles and rating rows
// accumulate at runtime.
type MemoryStore struct {
	mu      sync.RWMutex
	models  map[string]model.Model
	order   []string // catalog ids in seed order
	battles map[string]model.Battle
	matches []model.MatchResult                   // voted outcomes in vote order
	ratings map[string]map[string]model.RatingRow // scope key -> model id -> row
	updated map[string]time.Time                  // scope key -> last write

	metricsUpdateInterval time.Duration

	// Background metrics management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an in-memory store with configuration options.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		metricsUpdateInterval: 5 * time.Second, // default metrics refresh
		models:                make(map[string]model.Model),
		battles:               make(map[string]model.Battle),
		ratings:               make(map[string]map[string]model.RatingRow),
		updated:               make(map[string]time.Time),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// ListModels implements ModelStore.ListModels.
func (s *MemoryStore) ListModels(ctx context.Context) ([]model.Model, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Model, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.models[id])
	}
	return out, nil
}

// GetModel implements ModelStore.GetModel.
func (s *MemoryStore) GetModel(ctx context.Context, id string) (model.Model, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Model{}, ErrNotFound
	}
	return m, nil
}

// ListActiveIDs implements ModelStore.ListActiveIDs.
func (s *MemoryStore) ListActiveIDs(ctx context.Context) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.models[id].Active {
			out = append(out, id)
		}
	}
	return out, nil
}

// PutBattle implements BattleStore.PutBattle.
func (s *MemoryStore) PutBattle(ctx context.Context, b model.Battle) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	s.battles[b.ID] = b
	total := len(s.battles)
	s.mu.Unlock()

	// Update metrics outside lock
	metrics.UpdateRepositoryBattlesTotal(total)
	return nil
}

// GetBattle implements BattleStore.GetBattle.
func (s *MemoryStore) GetBattle(ctx context.Context, id string) (model.Battle, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.battles[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Battle{}, ErrNotFound
	}
	return b, nil
}

// RecordOutcome implements BattleStore.RecordOutcome. The voted check and
// the outcome write happen under one lock, so a battle accepts exactly one
// outcome no matter how many workers race on it.
func (s *MemoryStore) RecordOutcome(ctx context.Context, id string, outcome types.Outcome, at time.Time) (model.Battle, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.battles[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Battle{}, ErrNotFound
	}
	if b.Voted {
		metrics.RecordErrorByComponent("repository", "already_voted")
		return model.Battle{}, ErrAlreadyVoted
	}

	b.Voted = true
	b.Outcome = outcome
	b.VotedAt = at
	s.battles[id] = b

	s.matches = append(s.matches, model.MatchResult{
		ModelA:   b.ModelA,
		ModelB:   b.ModelB,
		Outcome:  outcome,
		Category: b.Category,
	})
	return b, nil
}

// ListMatches implements BattleStore.ListMatches.
func (s *MemoryStore) ListMatches(ctx context.Context, category string) ([]model.MatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.MatchResult, 0, len(s.matches))
	for _, m := range s.matches {
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// CountMatches implements BattleStore.CountMatches.
func (s *MemoryStore) CountMatches(ctx context.Context, category string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" {
		return len(s.matches), nil
	}
	var n int
	for _, m := range s.matches {
		if m.Category == category {
			n++
		}
	}
	return n, nil
}

// PutRatings implements RatingStore.PutRatings. The stored rows for the
// scope are replaced wholesale, so readers never observe a half-written
// recalculation.
func (s *MemoryStore) PutRatings(ctx context.Context, scope types.Scope, rows []model.RatingRow) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	key := scope.Key()
	byModel := make(map[string]model.RatingRow, len(rows))
	for _, r := range rows {
		byModel[r.ModelID] = r
	}

	s.mu.Lock()
	s.ratings[key] = byModel
	s.updated[key] = time.Now()
	var total int
	for _, scoped := range s.ratings {
		total += len(scoped)
	}
	s.mu.Unlock()

	// Update metrics outside lock
	metrics.UpdateRepositoryRatingsTotal(total)
	return nil
}

// ListRatings implements RatingStore.ListRatings. Rows come back ordered by
// model id for deterministic reads.
func (s *MemoryStore) ListRatings(ctx context.Context, scope types.Scope) ([]model.RatingRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	byModel := s.ratings[scope.Key()]
	out := make([]model.RatingRow, 0, len(byModel))
	for _, r := range byModel {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ModelID < out[j].ModelID
	})
	return out, nil
}

// GetRating implements RatingStore.GetRating.
func (s *MemoryStore) GetRating(ctx context.Context, scope types.Scope, modelID string) (model.RatingRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	byModel, ok := s.ratings[scope.Key()]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.RatingRow{}, ErrNotFound
	}
	r, ok := byModel[modelID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.RatingRow{}, ErrNotFound
	}
	return r, nil
}

// LastUpdated implements RatingStore.LastUpdated.
func (s *MemoryStore) LastUpdated(ctx context.Context, scope types.Scope) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated[scope.Key()], nil
}

// startMetricsUpdater starts a background goroutine that refreshes
// repository gauges at the configured interval.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes all repository-related gauges.
func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	modelCount := len(s.models)
	battleCount := len(s.battles)
	var ratingCount int
	for _, scoped := range s.ratings {
		ratingCount += len(scoped)
	}
	s.mu.RUnlock()

	metrics.UpdateTotalModels(modelCount)
	metrics.UpdateTotalBattles(battleCount)
	metrics.UpdateRepositoryBattlesTotal(battleCount)
	metrics.UpdateRepositoryRatingsTotal(ratingCount)
}
