package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/shankh/internal/metrics"
)

const keyPrefix = "shankh:lock:"

// Redis obtains aggregate locks through redislock so several API processes can share one database.
type Redis struct {
	client   *redislock.Client
	ttl      time.Duration
	strategy func() redislock.RetryStrategy
	metrics  *metrics.Metrics
}

type RedisOptions struct {
	TTL           time.Duration
	RetryInterval time.Duration
	RetryCount    int
}

func NewRedis(rdb redis.UniversalClient, opts RedisOptions, m *metrics.Metrics) *Redis {
	return &Redis{
		client: redislock.New(rdb),
		ttl:    opts.TTL,
		strategy: func() redislock.RetryStrategy {
			return redislock.LimitRetry(redislock.LinearBackoff(opts.RetryInterval), opts.RetryCount)
		},
		metrics: m,
	}
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	start := time.Now()

	lk, err := r.client.Obtain(ctx, keyPrefix+key, r.ttl, &redislock.Options{RetryStrategy: r.strategy()})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrBusy
	}

	if err != nil {
		return nil, fmt.Errorf("obtaining redis lock: %w", err)
	}

	r.metrics.ObserveLockWait("redis", time.Since(start))

	return func() {
		// The request context may already be done; release must still reach Redis.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release lock", "key", key, "error", err)
		}
	}, nil
}
