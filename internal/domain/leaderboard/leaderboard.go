// Package leaderboard assembles ranked leaderboards from persisted ratings.
package leaderboard

import (
	"sort"
	"time"

	model "github.com/chemarena/arena/internal/domain/model"
)

// Entry is one row of an assembled leaderboard.
type Entry struct {
	Rank         int     `json:"rank"`
	ModelID      string  `json:"model_id"`
	ModelName    string  `json:"model_name"`
	Provider     string  `json:"provider"`
	Rating       int     `json:"rating"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Ties         int     `json:"ties"`
	WinRate      float64 `json:"win_rate"`
	Confidence   float64 `json:"confidence"`
	TotalMatches int     `json:"total_matches"`
	IsNew        bool    `json:"is_new"`
}

// Board is an assembled leaderboard for one scope. TotalBattles counts the
// whole scope regardless of how many entries survived the limit.
type Board struct {
	Category     string    `json:"category,omitempty"`
	Entries      []Entry   `json:"entries"`
	TotalBattles int       `json:"total_battles"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Build assembles leaderboard entries from rating rows and the model
// catalog. The full row set is ordered before truncating to limit
// (limit <= 0 keeps everything), and ranks are positional: equal ratings
// still receive distinct consecutive ranks. Ordering is rating descending,
// then total matches descending, then model id ascending. The input slice
// is left untouched.
func Build(rows []model.RatingRow, catalog map[string]model.Model, limit int) []Entry {
	sorted := make([]model.RatingRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rating != sorted[j].Rating {
			return sorted[i].Rating > sorted[j].Rating
		}
		if sorted[i].TotalMatches != sorted[j].TotalMatches {
			return sorted[i].TotalMatches > sorted[j].TotalMatches
		}
		return sorted[i].ModelID < sorted[j].ModelID
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	entries := make([]Entry, 0, len(sorted))
	for i, row := range sorted {
		entry := Entry{
			Rank:         i + 1,
			ModelID:      row.ModelID,
			Rating:       row.Rating,
			Wins:         row.Wins,
			Losses:       row.Losses,
			Ties:         row.Ties,
			WinRate:      row.WinRate,
			Confidence:   row.Confidence,
			TotalMatches: row.TotalMatches,
		}
		if m, ok := catalog[row.ModelID]; ok {
			entry.ModelName = m.Name
			entry.Provider = m.Provider
			entry.IsNew = m.IsNew
		}
		entries = append(entries, entry)
	}
	return entries
}
