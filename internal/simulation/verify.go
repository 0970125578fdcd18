package simulation

import (
	"context"
	"fmt"
	"log"
)

// tally counts the outcomes the simulator observed for one model.
type tally struct {
	wins   int
	losses int
	ties   int
}

func (t tally) matches() int { return t.wins + t.losses + t.ties }

// verifyResults checks the leaderboard against the verdicts the
// simulator itself cast and saw revealed.
func verifyResults(ctx context.Context, config *Config, reveals []Battle, board Board, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(reveals) == 0 {
		return fmt.Errorf("no reveals to verify")
	}

	observed := tallyOutcomes(reveals)

	if err := verifyBoardOrdering(board); err != nil {
		log.Printf("⚠️  Leaderboard ordering warning: %v", err)
	} else {
		log.Println("✅ Leaderboard ordering verified")
	}

	// Tallies only line up exactly when the simulator is the sole
	// traffic source, so mismatches are warnings.
	if err := verifyTallies(observed, board); err != nil {
		log.Printf("⚠️  Leaderboard tally warning: %v", err)
	} else {
		log.Println("✅ Leaderboard tallies match observed verdicts")
	}

	if board.TotalBattles != stats.VotesAccepted {
		log.Printf("⚠️  Board counts %d battles, simulator had %d votes accepted",
			board.TotalBattles, stats.VotesAccepted)
	}

	displayTopModels(observed, board, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// tallyOutcomes aggregates revealed verdicts per model.
func tallyOutcomes(reveals []Battle) map[string]*tally {
	observed := make(map[string]*tally)
	get := func(id string) *tally {
		t, ok := observed[id]
		if !ok {
			t = &tally{}
			observed[id] = t
		}
		return t
	}

	for _, b := range reveals {
		a, bb := get(b.ModelA), get(b.ModelB)
		switch b.Winner {
		case "model_a":
			a.wins++
			bb.losses++
		case "model_b":
			bb.wins++
			a.losses++
		case "tie":
			a.ties++
			bb.ties++
		}
	}
	return observed
}

// verifyBoardOrdering checks rating order and rank numbering.
func verifyBoardOrdering(board Board) error {
	if len(board.Entries) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	for i, entry := range board.Entries {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d carries rank %d", i, entry.Rank)
		}
		if i > 0 && entry.Rating > board.Entries[i-1].Rating {
			return fmt.Errorf("leaderboard not properly sorted: entry %d has higher rating than entry %d",
				i, i-1)
		}
	}
	return nil
}

// verifyTallies compares board win/loss/tie counts against observed verdicts.
func verifyTallies(observed map[string]*tally, board Board) error {
	for _, entry := range board.Entries {
		t, ok := observed[entry.ModelID]
		if !ok {
			return fmt.Errorf("model %s is on the board but fought no observed battle", entry.ModelID)
		}
		if entry.Wins != t.wins || entry.Losses != t.losses || entry.Ties != t.ties {
			return fmt.Errorf("model %s: board says %d-%d-%d, simulator observed %d-%d-%d",
				entry.ModelID, entry.Wins, entry.Losses, entry.Ties, t.wins, t.losses, t.ties)
		}
	}
	return nil
}

// displayTopModels shows the top models from the leaderboard.
func displayTopModels(observed map[string]*tally, board Board, verbose bool) {
	topN := 10
	if len(board.Entries) < topN {
		topN = len(board.Entries)
	}

	log.Printf("🏆 Top %d models on the leaderboard:", topN)
	for i := 0; i < topN; i++ {
		entry := board.Entries[i]
		log.Printf("   %d. %s (%s) - Rating: %d, Record: %d-%d-%d",
			entry.Rank, entry.ModelName, entry.Provider, entry.Rating,
			entry.Wins, entry.Losses, entry.Ties)
	}

	if verbose && len(board.Entries) > 0 {
		avgRating := calculateAverageRating(board.Entries)
		maxRating := board.Entries[0].Rating
		minRating := board.Entries[len(board.Entries)-1].Rating
		log.Printf(`📊 Rating statistics:
   Models observed: %d
   Average: %.1f
   Maximum: %d
   Minimum: %d
`, len(observed), avgRating, maxRating, minRating)
	}
}

// calculateAverageRating calculates the average rating on the board.
func calculateAverageRating(entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}

	sum := 0
	for _, entry := range entries {
		sum += entry.Rating
	}

	return float64(sum) / float64(len(entries))
}
