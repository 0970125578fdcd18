// Package model contains domain models passed between layers.
package model

import (
	"time"

	types "github.com/chemarena/arena/internal/domain/types"
)

// Battle represents a single blind comparison between two models.
// Model identities stay hidden from voters until the battle is voted on.
type Battle struct {
	ID        string        // unique battle id
	Category  string        // battle category id
	PromptID  string        // id of the prompt shown to both models
	Prompt    string        // prompt text
	ModelA    string        // model behind position A
	ModelB    string        // model behind position B
	ResponseA string        // response shown in position A
	ResponseB string        // response shown in position B
	Voted     bool          // whether a vote has been recorded
	Outcome   types.Outcome // recorded verdict, empty until voted
	CreatedAt time.Time
	VotedAt   time.Time // zero until voted
}

// VoteJob carries an accepted vote from the HTTP layer to the workers.
type VoteJob struct {
	BattleID   string
	Outcome    types.Outcome
	ReceivedAt time.Time
}

// MatchResult is the engine-facing projection of a voted battle.
type MatchResult struct {
	ModelA   string
	ModelB   string
	Outcome  types.Outcome
	Category string
}
