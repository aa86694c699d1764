// Package middleware provides reusable llm.Client middlewares.
package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/harmonia-ai/harmonia/llm"
)

// RateLimiter applies a token bucket on top of an llm.Client, blocking callers
// until request capacity is available. The limiter is process-local and sits
// at the provider client boundary: construct one per process and wrap the
// underlying client with Middleware.
type RateLimiter struct {
	limiter *rate.Limiter
}

type limitedClient struct {
	next    llm.Client
	limiter *RateLimiter
}

// NewRateLimiter constructs a RateLimiter with a requests-per-minute budget.
// A non-positive budget defaults to 60.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	// Burst of one smooths calls out across the minute instead of allowing an
	// initial thundering herd against the provider.
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)}
}

// Middleware returns an llm.Client middleware that enforces the limit.
func (l *RateLimiter) Middleware() func(llm.Client) llm.Client {
	return func(next llm.Client) llm.Client {
		if next == nil {
			return nil
		}
		return &limitedClient{next: next, limiter: l}
	}
}

// Complete blocks until the limiter grants capacity, then delegates.
func (c *limitedClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if err := c.limiter.limiter.Wait(ctx); err != nil {
		return llm.Response{}, err
	}
	return c.next.Complete(ctx, req)
}
