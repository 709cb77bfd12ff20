package store

import (
	"context"
	"time"
)

type janitorLogger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// TokenJanitor periodically prunes refresh tokens older than maxAge. Sessions
// abandoned without a logout would otherwise accumulate forever, since
// refresh tokens carry no expiry claim.
type TokenJanitor struct {
	tokens   *RefreshTokens
	interval time.Duration
	maxAge   time.Duration
	logger   janitorLogger
}

// NewTokenJanitor builds a janitor. Run must be started by the caller.
func NewTokenJanitor(tokens *RefreshTokens, interval, maxAge time.Duration, logger janitorLogger) *TokenJanitor {
	return &TokenJanitor{
		tokens:   tokens,
		interval: interval,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (j *TokenJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *TokenJanitor) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.maxAge)
	pruned, err := j.tokens.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Warn("refresh token sweep failed", "error", err)
		return
	}
	if pruned > 0 {
		j.logger.Info("pruned stale refresh tokens", "count", pruned)
	}
}
