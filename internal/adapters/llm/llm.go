// Package llm defines the contract for generating model responses to
// battle prompts.
package llm

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chemarena/arena/pkg/metrics"
)

// Default generation configuration constants.
const (
	defaultMinLatency = 80 * time.Millisecond
	defaultMaxLatency = 150 * time.Millisecond
	defaultRandomSeed = 42
)

// Option applies a configuration option to the SimulatedClient.
type Option func(*SimulatedClient)

// WithLatencyRange sets the simulated latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(c *SimulatedClient) {
		if minLatency > 0 && maxLatency > minLatency {
			c.minLatency = minLatency
			c.maxLatency = maxLatency
		}
	}
}

// WithSeed sets the random seed driving phrasing and latency draws.
func WithSeed(seed int64) Option {
	return func(c *SimulatedClient) {
		c.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible output
	}
}

// Request carries the fields needed to generate one response.
type Request struct {
	ModelID string
	Prompt  string
}

// Response contains a generated answer.
type Response struct {
	ModelID string
	Text    string
	Latency time.Duration
}

// Client generates a model's response to a prompt. The implementation may
// simulate latency to model an external LLM service.
type Client interface {
	// Generate produces a response, honoring ctx for cancellation.
	Generate(ctx context.Context, req Request) (Response, error)
}

// openings seeds the simulated responses with some variety.
var openings = []string{
	"Here is my approach to",
	"Let me walk through",
	"A concise answer to",
	"My perspective on",
	"Breaking down",
}

// SimulatedClient implements Client with deterministic, latency-simulating
// generation.
type SimulatedClient struct {
	// Simulated latency range
	minLatency time.Duration
	maxLatency time.Duration
	// Random source for phrasing and latency; guarded because battle
	// creation generates both responses concurrently.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedClient creates a simulated generator with configuration
// options.
func NewSimulatedClient(opts ...Option) *SimulatedClient {
	c := &SimulatedClient{
		minLatency: defaultMinLatency,                           // default min latency
		maxLatency: defaultMaxLatency,                           // default max latency
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible output
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Generate produces a response for the given request.
func (c *SimulatedClient) Generate(ctx context.Context, req Request) (Response, error) {
	if req.ModelID == "" {
		return Response{}, ErrEmptyModel
	}
	if req.Prompt == "" {
		return Response{}, ErrEmptyPrompt
	}

	start := time.Now()

	c.mu.Lock()
	latency := c.minLatency + time.Duration(c.rng.Int63n(int64(c.maxLatency-c.minLatency)))
	opening := openings[c.rng.Intn(len(openings))]
	c.mu.Unlock()

	// Simulate LLM service latency
	select {
	case <-ctx.Done():
		metrics.RecordGenerationError()
		return Response{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-time.After(latency):
		// Continue with generation
	}

	text := fmt.Sprintf("[%s] %s %q.", req.ModelID, opening, req.Prompt)

	metrics.RecordGenerationLatency(float64(time.Since(start).Milliseconds()))
	return Response{
		ModelID: req.ModelID,
		Text:    text,
		Latency: latency,
	}, nil
}

// SetLatencyRange allows customization of simulated latency.
func (c *SimulatedClient) SetLatencyRange(minLatency, maxLatency time.Duration) {
	if minLatency > 0 && maxLatency > minLatency {
		c.minLatency = minLatency
		c.maxLatency = maxLatency
	}
}
