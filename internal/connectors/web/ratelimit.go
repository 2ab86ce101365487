package web

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds politeness settings for a crawl.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate. Zero or less means unlimited.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// RateLimiter throttles page fetches with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter for the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RequestsPerSecond <= 0 || math.IsInf(cfg.RequestsPerSecond, 1) {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}

	burst := cfg.BurstSize
	if burst < 1 {
		burst = int(math.Ceil(cfg.RequestsPerSecond))
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
