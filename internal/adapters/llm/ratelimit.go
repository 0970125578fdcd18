package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Default limiter configuration when given non-positive values.
const (
	defaultRequestsPerSecond = 10
	defaultBurst             = 1
)

// RateLimited wraps a Client with a token-bucket limiter shared across all
// models.
type RateLimited struct {
	inner   Client
	limiter *rate.Limiter
}

var _ Client = (*RateLimited)(nil)

// NewRateLimited wraps client, allowing rps requests per second with the
// given burst. Non-positive values fall back to defaults.
func NewRateLimited(client Client, rps float64, burst int) *RateLimited {
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &RateLimited{
		inner:   client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Generate waits for a token, then delegates to the wrapped client.
func (r *RateLimited) Generate(ctx context.Context, req Request) (Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.Generate(ctx, req)
}
