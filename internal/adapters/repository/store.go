// Package repository defines the arena store interfaces and errors.
package repository

import (
	"context"
	"time"

	model "github.com/chemarena/arena/internal/domain/model"
	types "github.com/chemarena/arena/internal/domain/types"
)

// ModelStore provides read access to the competitor catalog.
type ModelStore interface {
	// ListModels returns every catalog entry, active or not.
	ListModels(ctx context.Context) ([]model.Model, error)

	// GetModel returns a single catalog entry.
	// Returns ErrNotFound if the model is unknown.
	GetModel(ctx context.Context, id string) (model.Model, error)

	// ListActiveIDs returns the ids of models eligible for battles and
	// rating, in catalog order.
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// BattleStore persists battles and their voted outcomes.
type BattleStore interface {
	// PutBattle stores a new battle.
	PutBattle(ctx context.Context, b model.Battle) error

	// GetBattle returns a battle by id.
	// Returns ErrNotFound if the battle is unknown.
	GetBattle(ctx context.Context, id string) (model.Battle, error)

	// RecordOutcome marks a battle as voted with the given outcome and
	// returns the updated battle. The check-and-set is atomic: a battle
	// accepts exactly one outcome. Returns ErrAlreadyVoted if the battle
	// already has one, ErrNotFound if the battle is unknown.
	RecordOutcome(ctx context.Context, id string, outcome types.Outcome, at time.Time) (model.Battle, error)

	// ListMatches returns the voted outcomes as match results. An empty
	// category selects every category.
	ListMatches(ctx context.Context, category string) ([]model.MatchResult, error)

	// CountMatches returns the number of voted battles in a category.
	// An empty category counts all of them.
	CountMatches(ctx context.Context, category string) (int, error)
}

// RatingStore persists computed rating rows per scope.
type RatingStore interface {
	// PutRatings upserts the scope's rows and retires rows for
	// competitors absent from the new set. LastUpdated advances only
	// when the write completes.
	PutRatings(ctx context.Context, scope types.Scope, rows []model.RatingRow) error

	// ListRatings returns all rows stored for a scope.
	ListRatings(ctx context.Context, scope types.Scope) ([]model.RatingRow, error)

	// GetRating returns the row for one competitor in a scope.
	// Returns ErrNotFound if absent.
	GetRating(ctx context.Context, scope types.Scope, modelID string) (model.RatingRow, error)

	// LastUpdated reports when a scope's ratings were last written.
	// The zero time means the scope has never been written.
	LastUpdated(ctx context.Context, scope types.Scope) (time.Time, error)
}

// Store provides read/write access to the arena state.
type Store interface {
	ModelStore
	BattleStore
	RatingStore
}
