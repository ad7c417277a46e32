package s3

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/olusolaa/pkgutils/internal/core/ports"
)

const (
	defaultRateLimitRPS = 5
	minRateLimitRPS     = 1
	maxRateLimitRPS     = 100
)

type RateLimiter interface {
	Wait(ctx context.Context) error
}

type tokenLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter returns a limiter for AWS calls. Out-of-range values fall
// back to the default rate.
func NewRateLimiter(rps int, logger ports.Logger) RateLimiter {
	limit := defaultRateLimitRPS
	if rps >= minRateLimitRPS && rps <= maxRateLimitRPS {
		limit = rps
	} else if rps != 0 {
		logger.Warnf(context.Background(), "Invalid AWS API RPS configured (%d), using default %d RPS. Valid range: %d-%d.",
			rps, defaultRateLimitRPS, minRateLimitRPS, maxRateLimitRPS)
	}
	return &tokenLimiter{limiter: rate.NewLimiter(rate.Limit(limit), limit)}
}

func (l *tokenLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
