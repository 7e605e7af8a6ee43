package lock

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// ErrBusy is returned when a lock could not be obtained before the retry budget ran out.
var ErrBusy = errors.New("aggregate is locked by another writer")

// DaybookKey serializes all day book writers; the balance chain is a single sequence.
const DaybookKey = "daybook"

func LotKey(lotID int64) string {
	return fmt.Sprintf("lot:%d", lotID)
}

// Locker grants exclusive access to an aggregate key. The returned release func is safe to call once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// AcquireAll locks every distinct non-empty key in sorted order so two writers touching the same pair of
// lots cannot deadlock. On failure any keys already held are released.
func AcquireAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var releases []func()

	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range sorted {
		if key == "" {
			continue
		}

		release, err := l.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("locking %s: %w", key, err)
		}

		releases = append(releases, release)
	}

	return releaseAll, nil
}
