package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shankh/internal/config"
	"github.com/MrJamesThe3rd/shankh/internal/lock"
)

func TestLotKey(t *testing.T) {
	assert.Equal(t, "lot:42", lock.LotKey(42))
}

func TestLocal_SerializesSameKey(t *testing.T) {
	l := lock.NewLocal(nil)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			release, err := l.Acquire(ctx, lock.LotKey(1))
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocal_DistinctKeysDoNotBlock(t *testing.T) {
	l := lock.NewLocal(nil)
	ctx := context.Background()

	r1, err := l.Acquire(ctx, lock.LotKey(1))
	require.NoError(t, err)
	defer r1()

	r2, err := l.Acquire(ctx, lock.LotKey(2))
	require.NoError(t, err)
	r2()
}

func TestLocal_HonorsContext(t *testing.T) {
	l := lock.NewLocal(nil)

	release, err := l.Acquire(context.Background(), lock.DaybookKey)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, lock.DaybookKey)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release()

	again, err := l.Acquire(context.Background(), lock.DaybookKey)
	require.NoError(t, err)
	again()
}

func TestAcquireAll_DedupesAndReleases(t *testing.T) {
	l := lock.NewLocal(nil)
	ctx := context.Background()

	release, err := lock.AcquireAll(ctx, l, lock.LotKey(2), lock.LotKey(1), lock.LotKey(2), "")
	require.NoError(t, err)
	release()

	r, err := l.Acquire(ctx, lock.LotKey(2))
	require.NoError(t, err)
	r()
}

func newRedisLocker(t *testing.T) (*lock.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return lock.NewRedis(rdb, lock.RedisOptions{
		TTL:           time.Second,
		RetryInterval: 5 * time.Millisecond,
		RetryCount:    3,
	}, nil), mr
}

func TestRedis_AcquireRelease(t *testing.T) {
	l, mr := newRedisLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, lock.LotKey(9))
	require.NoError(t, err)
	assert.True(t, mr.Exists("shankh:lock:lot:9"))

	_, err = l.Acquire(ctx, lock.LotKey(9))
	assert.ErrorIs(t, err, lock.ErrBusy)

	release()
	assert.False(t, mr.Exists("shankh:lock:lot:9"))

	again, err := l.Acquire(ctx, lock.LotKey(9))
	require.NoError(t, err)
	again()
}

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	var cfg config.Config

	l, closeFn := lock.FromConfig(ctx, &cfg, nil)
	assert.IsType(t, &lock.Local{}, l)
	closeFn()

	mr := miniredis.RunT(t)
	cfg.Redis.Addr = mr.Addr()
	cfg.Lock.TTL = time.Second
	cfg.Lock.RetryInterval = time.Millisecond
	cfg.Lock.RetryCount = 1

	l, closeFn = lock.FromConfig(ctx, &cfg, nil)
	defer closeFn()
	require.IsType(t, &lock.Redis{}, l)

	release, err := l.Acquire(ctx, lock.DaybookKey)
	require.NoError(t, err)
	assert.True(t, mr.Exists("shankh:lock:daybook"))
	release()
}
