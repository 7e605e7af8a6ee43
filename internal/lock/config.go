package lock

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/MrJamesThe3rd/shankh/internal/config"
	"github.com/MrJamesThe3rd/shankh/internal/metrics"
)

// FromConfig returns a Redis-backed locker when REDIS_ADDR is set and an in-process one otherwise.
// The returned func closes any connection the locker holds.
func FromConfig(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (Locker, func()) {
	if cfg.Redis.Addr == "" {
		slog.Info("redis not configured, using in-process locks")
		return NewLocal(m), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, lock acquisition will fail until it recovers", "addr", cfg.Redis.Addr, "error", err)
	}

	locker := NewRedis(rdb, RedisOptions{
		TTL:           cfg.Lock.TTL,
		RetryInterval: cfg.Lock.RetryInterval,
		RetryCount:    cfg.Lock.RetryCount,
	}, m)

	return locker, func() { _ = rdb.Close() }
}
