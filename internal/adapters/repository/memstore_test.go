package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
)

func testCatalog() []model.Model {
	return []model.Model{
		{ID: "gpt-4", Name: "GPT-4", Provider: "OpenAI", Active: true},
		{ID: "claude-3", Name: "Claude 3", Provider: "Anthropic", Active: true},
		{ID: "legacy-model", Name: "Legacy", Provider: "Acme", Active: false},
	}
}

func testBattle(id, category, a, b string) model.Battle {
	return model.Battle{
		ID:        id,
		Category:  category,
		PromptID:  "prompt-1",
		Prompt:    "Explain recursion.",
		ModelA:    a,
		ModelB:    b,
		ResponseA: "response from " + a,
		ResponseB: "response from " + b,
		CreatedAt: time.Now(),
	}
}

func TestMemoryStore_Catalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	models, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("expected 3 models, got %d", len(models))
	}
	// Seed order is preserved
	if models[0].ID != "gpt-4" || models[1].ID != "claude-3" || models[2].ID != "legacy-model" {
		t.Errorf("unexpected catalog order: %v", models)
	}

	m, err := store.GetModel(ctx, "claude-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Provider != "Anthropic" {
		t.Errorf("expected provider Anthropic, got %s", m.Provider)
	}

	if _, err := store.GetModel(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	active, err := store.ListActiveIDs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active ids, got %d", len(active))
	}
	if active[0] != "gpt-4" || active[1] != "claude-3" {
		t.Errorf("unexpected active ids: %v", active)
	}
}

func TestMemoryStore_Battles(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	b := testBattle("battle-1", "coding", "gpt-4", "claude-3")
	if err := store.PutBattle(ctx, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetBattle(ctx, "battle-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ModelA != "gpt-4" || got.ModelB != "claude-3" {
		t.Errorf("unexpected battle contestants: %+v", got)
	}
	if got.Voted {
		t.Error("new battle should not be voted")
	}

	if _, err := store.GetBattle(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_RecordOutcome(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	if err := store.PutBattle(ctx, testBattle("battle-1", "coding", "gpt-4", "claude-3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	votedAt := time.Now()
	voted, err := store.RecordOutcome(ctx, "battle-1", types.OutcomeModelA, votedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !voted.Voted {
		t.Error("expected battle to be marked voted")
	}
	if voted.Outcome != types.OutcomeModelA {
		t.Errorf("expected outcome %s, got %s", types.OutcomeModelA, voted.Outcome)
	}
	if !voted.VotedAt.Equal(votedAt) {
		t.Errorf("expected voted-at %v, got %v", votedAt, voted.VotedAt)
	}

	// A second vote on the same battle must be rejected
	if _, err := store.RecordOutcome(ctx, "battle-1", types.OutcomeModelB, time.Now()); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("expected ErrAlreadyVoted, got %v", err)
	}

	if _, err := store.RecordOutcome(ctx, "missing", types.OutcomeTie, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Matches(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	seed := []struct {
		id       string
		category string
		outcome  types.Outcome
	}{
		{"battle-1", "coding", types.OutcomeModelA},
		{"battle-2", "writing", types.OutcomeModelB},
		{"battle-3", "coding", types.OutcomeTie},
	}
	for _, s := range seed {
		if err := store.PutBattle(ctx, testBattle(s.id, s.category, "gpt-4", "claude-3")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := store.RecordOutcome(ctx, s.id, s.outcome, time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// An unvoted battle must not contribute a match
	if err := store.PutBattle(ctx, testBattle("battle-4", "coding", "gpt-4", "claude-3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := store.ListMatches(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(all))
	}
	// Vote order is preserved
	if all[0].Outcome != types.OutcomeModelA || all[2].Outcome != types.OutcomeTie {
		t.Errorf("unexpected match order: %v", all)
	}

	coding, err := store.ListMatches(ctx, "coding")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coding) != 2 {
		t.Fatalf("expected 2 coding matches, got %d", len(coding))
	}

	n, err := store.CountMatches(ctx, "")
	if err != nil || n != 3 {
		t.Errorf("expected 3 total matches, got %d (err %v)", n, err)
	}
	n, err = store.CountMatches(ctx, "writing")
	if err != nil || n != 1 {
		t.Errorf("expected 1 writing match, got %d (err %v)", n, err)
	}
	n, err = store.CountMatches(ctx, "unknown-category")
	if err != nil || n != 0 {
		t.Errorf("expected 0 matches, got %d (err %v)", n, err)
	}
}

func TestMemoryStore_Ratings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	overall := types.OverallScope()

	// Unwritten scope: empty list, zero timestamp
	rows, err := store.ListRatings(ctx, overall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
	ts, err := store.LastUpdated(ctx, overall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("expected zero timestamp, got %v", ts)
	}

	write := []model.RatingRow{
		{ModelID: "gpt-4", Rating: 1620, Strength: 2.0, Wins: 2, TotalMatches: 3},
		{ModelID: "claude-3", Rating: 1380, Strength: 0.5, Losses: 2, TotalMatches: 3},
	}
	if err := store.PutRatings(ctx, overall, write); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err = store.ListRatings(ctx, overall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Ordered by model id
	if rows[0].ModelID != "claude-3" || rows[1].ModelID != "gpt-4" {
		t.Errorf("unexpected row order: %v", rows)
	}

	r, err := store.GetRating(ctx, overall, "gpt-4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Rating != 1620 {
		t.Errorf("expected rating 1620, got %d", r.Rating)
	}
	if _, err := store.GetRating(ctx, overall, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ts, err = store.LastUpdated(ctx, overall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.IsZero() {
		t.Error("expected non-zero timestamp after write")
	}

	// Scopes are independent
	coding := types.CategoryScope("coding")
	if _, err := store.GetRating(ctx, coding, "gpt-4"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unwritten scope, got %v", err)
	}

	// A rewrite replaces the scope's rows wholesale
	if err := store.PutRatings(ctx, overall, write[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err = store.ListRatings(ctx, overall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after rewrite, got %d", len(rows))
	}
	if rows[0].ModelID != "gpt-4" {
		t.Errorf("unexpected surviving row: %v", rows[0])
	}
}

func TestMemoryStore_ConcurrentVotes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	if err := store.PutBattle(ctx, testBattle("battle-1", "coding", "gpt-4", "claude-3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const voters = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, duplicates int

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			outcome := types.OutcomeModelA
			if n%2 == 1 {
				outcome = types.OutcomeModelB
			}
			_, err := store.RecordOutcome(ctx, "battle-1", outcome, time.Now())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyVoted):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly 1 successful vote, got %d", successes)
	}
	if duplicates != voters-1 {
		t.Errorf("expected %d duplicates, got %d", voters-1, duplicates)
	}
	if n, _ := store.CountMatches(ctx, ""); n != 1 {
		t.Errorf("expected 1 match, got %d", n)
	}
}

func TestMemoryStore_ConcurrentBattleWrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithCatalog(testCatalog()))
	defer store.Close()

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				id := fmt.Sprintf("battle-%d-%d", w, j)
				if err := store.PutBattle(ctx, testBattle(id, "coding", "gpt-4", "claude-3")); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		for j := 0; j < perWriter; j++ {
			id := fmt.Sprintf("battle-%d-%d", w, j)
			if _, err := store.GetBattle(ctx, id); err != nil {
				t.Errorf("battle %s missing: %v", id, err)
			}
		}
	}
}

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, WithMetricsUpdateInterval(10*time.Millisecond))

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Closing twice is safe
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
