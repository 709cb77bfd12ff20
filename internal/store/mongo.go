package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout = 30 * time.Second
	opTimeout      = 10 * time.Second
)

// Connect dials MongoDB with one bounded retry after a short delay, matching
// the app-level reconnect behavior on flaky DNS at startup.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	var client *mongo.Client

	backoff := retry.WithMaxRetries(1, retry.NewConstant(2*time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		c, err := mongo.Connect(dialCtx, options.Client().
			ApplyURI(uri).
			SetServerSelectionTimeout(connectTimeout))
		if err != nil {
			return retry.RetryableError(err)
		}

		if err := c.Ping(dialCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(dialCtx)
			return retry.RetryableError(err)
		}

		client = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}

// Health tracks database reachability out of band. A background heartbeat
// updates the flag so the request path reads cached state and never blocks on
// a ping.
type Health struct {
	client   *mongo.Client
	interval time.Duration
	ready    atomic.Bool
}

// NewHealth wraps an already-connected client. Connect has verified a ping by
// the time this runs, so the monitor starts in the ready state.
func NewHealth(client *mongo.Client, interval time.Duration) *Health {
	h := &Health{client: client, interval: interval}
	h.ready.Store(true)
	return h
}

// Ready reports the last observed reachability.
func (h *Health) Ready() bool {
	return h.ready.Load()
}

// Run blocks until ctx is cancelled, pinging on every tick.
func (h *Health) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			h.ready.Store(h.client.Ping(pingCtx, readpref.Primary()) == nil)
			cancel()
		}
	}
}
