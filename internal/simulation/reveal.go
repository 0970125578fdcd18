package simulation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveReveals fetches the voted battles back to learn which models
// fought and who won.
func retrieveReveals(ctx context.Context, config *Config, battles []Battle, stats *Stats) ([]Battle, error) {
	log.Printf("🎭 Retrieving reveals for %d battles with %d workers...", len(battles), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage; disjoint slots per index
	reveals := make([]Battle, len(battles))
	var (
		retrieved int64
		failed    int64
	)

	progress := newProgressReporter(1 * time.Second)

	// Create worker pool
	battleChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range battleChan {
				select {
				case <-ctx.Done():
					return
				default:
					battleID := battles[index].ID
					revealed, err := retrieveSingleReveal(ctx, client, config.BaseURL, battleID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to fetch battle %s: %v", battleID, err)
						}
					} else {
						reveals[index] = revealed
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if progress.due() {
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Reveal progress: %d/%d retrieved (success: %d, failed: %d)",
								total, len(battles), ret, fail)
						} else {
							log.Printf("\r🎭 Reveals: %d/%d retrieved (success: %d, failed: %d)",
								total, len(battles), ret, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send battle indices to workers
	go func() {
		defer close(battleChan)
		for i := range battles {
			select {
			case <-ctx.Done():
				return
			case battleChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Keep only battles that have a persisted verdict
	validReveals := make([]Battle, 0, len(reveals))
	for _, b := range reveals {
		if b.ID != "" && b.Voted {
			validReveals = append(validReveals, b)
		}
	}

	// Update stats
	stats.RevealsRetrieved = len(validReveals)

	log.Printf(`✅ Reveal retrieval completed:
   Revealed: %d
   Failed: %d
`, len(validReveals), int(atomic.LoadInt64(&failed)))

	return validReveals, nil
}

// retrieveSingleReveal fetches one battle by ID.
func retrieveSingleReveal(ctx context.Context, client *HTTPClient, baseURL, battleID string) (Battle, error) {
	url := fmt.Sprintf("%s/api/battles/%s", baseURL, battleID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Battle{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Battle{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Battle{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var battle Battle
	if err := unmarshalJSON(body, &battle); err != nil {
		return Battle{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return battle, nil
}

// getLeaderboard retrieves the top N leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) (Board, error) {
	log.Printf("🥇 Getting top %d leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/api/leaderboard?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Board{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Board{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Board{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var board Board
	if err := unmarshalJSON(body, &board); err != nil {
		return Board{}, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(board.Entries)
	log.Printf("✅ Retrieved %d leaderboard entries (%d battles counted)", len(board.Entries), board.TotalBattles)

	return board, nil
}
