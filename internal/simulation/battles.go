package simulation

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chemarena/arena/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pickOutcome chooses a vote verdict. Ties land with the configured
// rate; the rest splits evenly between both sides.
func pickOutcome(tieRate float64) string {
	r := getRandomFloat()
	if r < tieRate {
		return "tie"
	}
	if r < tieRate+(1-tieRate)/2 {
		return "model_a"
	}
	return "model_b"
}

// createBattles creates battles concurrently through the API.
func createBattles(ctx context.Context, config *Config, stats *Stats) ([]Battle, error) {
	logger.Get().Info(ctx, "creating battles",
		logger.Int("numBattles", config.NumBattles),
		logger.String("category", config.Category))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/battles"

	// Results storage; disjoint slots per index
	battles := make([]Battle, config.NumBattles)
	var (
		created int64
		failed  int64
	)

	progress := newProgressReporter(1 * time.Second)

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					battle, err := createSingleBattle(ctx, client, url, config.Category)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to create battle %d: %v", index, err)
						}
					} else {
						battles[index] = battle
						atomic.AddInt64(&created, 1)
					}

					// Progress reporting
					if progress.due() {
						total := atomic.LoadInt64(&created) + atomic.LoadInt64(&failed)
						if config.Verbose {
							log.Printf("📊 Battle progress: %d/%d (created: %d, failed: %d)",
								total, config.NumBattles, atomic.LoadInt64(&created), atomic.LoadInt64(&failed))
						} else {
							fmt.Printf("\r⚔️  Battles: %d/%d (created: %d, failed: %d)",
								total, config.NumBattles, atomic.LoadInt64(&created), atomic.LoadInt64(&failed))
						}
					}
				}
			}
		}(i)
	}

	// Send indices to workers
	go func() {
		defer close(indexChan)
		for i := 0; i < config.NumBattles; i++ {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Filter out empty slots (failed creations)
	validBattles := make([]Battle, 0, len(battles))
	for _, b := range battles {
		if b.ID != "" {
			validBattles = append(validBattles, b)
		}
	}

	stats.BattlesCreated = len(validBattles)
	stats.BattlesFailed = int(atomic.LoadInt64(&failed))
	logger.Get().Info(ctx, "created battles",
		logger.Int("created", stats.BattlesCreated),
		logger.Int("failed", stats.BattlesFailed))

	if len(validBattles) == 0 {
		return nil, fmt.Errorf("no battles created")
	}
	return validBattles, nil
}

// createSingleBattle creates one battle and returns its anonymized form.
func createSingleBattle(ctx context.Context, client *HTTPClient, url, category string) (Battle, error) {
	resp, err := client.Post(ctx, url, map[string]string{"category": category})
	if err != nil {
		return Battle{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Battle{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusCreated {
		return Battle{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var battle Battle
	if err := unmarshalJSON(body, &battle); err != nil {
		return Battle{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return battle, nil
}
