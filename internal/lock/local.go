package lock

import (
	"context"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/shankh/internal/metrics"
)

// Local is an in-process keyed mutex. Waiting honors ctx cancellation.
type Local struct {
	mu      sync.Mutex
	slots   map[string]*slot
	metrics *metrics.Metrics
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal(m *metrics.Metrics) *Local {
	return &Local{slots: make(map[string]*slot), metrics: m}
}

func (l *Local) Acquire(ctx context.Context, key string) (func(), error) {
	start := time.Now()

	l.mu.Lock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}

	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, s)
		return nil, ctx.Err()
	}

	l.metrics.ObserveLockWait("local", time.Since(start))

	var once sync.Once

	return func() {
		once.Do(func() {
			<-s.ch
			l.drop(key, s)
		})
	}, nil
}

func (l *Local) drop(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
