package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// progressReporter rate-limits progress lines across workers.
type progressReporter struct {
	lastNano int64
	interval time.Duration
}

func newProgressReporter(interval time.Duration) *progressReporter {
	return &progressReporter{interval: interval}
}

// due reports whether a progress line should be printed now.
func (p *progressReporter) due() bool {
	now := time.Now().UnixNano()
	last := atomic.LoadInt64(&p.lastNano)
	if now-last < int64(p.interval) {
		return false
	}
	return atomic.CompareAndSwapInt64(&p.lastNano, last, now)
}

// castVotes votes on battles concurrently using worker pools
func castVotes(ctx context.Context, config *Config, battles []Battle, stats *Stats) error {
	log.Printf("🗳️  Casting %d votes with %d workers...", len(battles), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
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
					winner := pickOutcome(config.TieRate)
					result := castSingleVote(ctx, client, config.BaseURL, battles[index].ID, winner)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if progress.due() {
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d votes (accepted: %d, duplicate: %d, failed: %d)",
								total, len(battles), acc, dup, fail)
						} else {
							fmt.Printf("\r🗳️  Votes: %d/%d (accepted: %d, duplicate: %d, failed: %d)",
								total, len(battles), acc, dup, fail)
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
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.VotesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.VotesAccepted = int(atomic.LoadInt64(&accepted))
	stats.VotesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.VotesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Vote submission completed:
   Accepted: %d
   Duplicate: %d
   Failed: %d
`, stats.VotesAccepted, stats.VotesDuplicate, stats.VotesFailed)

	return nil
}

// castSingleVote submits a single vote and returns the result
func castSingleVote(ctx context.Context, client *HTTPClient, baseURL, battleID, winner string) string {
	url := fmt.Sprintf("%s/api/battles/%s/vote", baseURL, battleID)

	resp, err := client.Post(ctx, url, VoteRequest{Winner: winner})
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	// Parse response based on status code
	switch resp.StatusCode {
	case StatusAccepted:
		// Accepted - new vote
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted" // Assume accepted for 202 even if parsing fails
	case StatusOK:
		// OK - duplicate vote
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate" // Assume duplicate for 200 even if parsing fails
	default:
		// Backpressure and other errors
		return "failed"
	}
}
