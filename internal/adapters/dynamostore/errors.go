package dynamostore

import (
	"fmt"

	repository "github.com/chemarena/arena/internal/adapters/repository"
)

// Not-found and conflict sentinels. Each wraps the matching repository
// sentinel so callers can test with errors.Is against either.
var (
	ErrModelNotFound      = fmt.Errorf("model not found: %w", repository.ErrNotFound)
	ErrBattleNotFound     = fmt.Errorf("battle not found: %w", repository.ErrNotFound)
	ErrRatingNotFound     = fmt.Errorf("rating not found: %w", repository.ErrNotFound)
	ErrBattleAlreadyVoted = fmt.Errorf("battle already voted: %w", repository.ErrAlreadyVoted)
)
