package xmlconfig

import (
	"context"
	"time"

	"github.com/gofrs/flock"

	"filament/internal/principal"
)

// LockFunc acquires exclusive use of the configuration file at path and
// returns the function that releases it. It should give up when ctx is done.
type LockFunc func(ctx context.Context, path string) (release func() error, err error)

// lockRetryDelay is how often a held lock is polled while waiting.
const lockRetryDelay = 50 * time.Millisecond

// FileLock takes an exclusive OS lock on "<path>.lock". Without a deadline on
// ctx it tries once and fails if another session holds the lock.
func FileLock(ctx context.Context, path string) (func() error, error) {
	l := flock.New(path + ".lock")
	var (
		ok  bool
		err error
	)
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		ok, err = l.TryLockContext(ctx, lockRetryDelay)
	} else {
		ok, err = l.TryLock()
	}
	if err != nil {
		return nil, principal.Wrap(principal.AccessFailure, err, "locking configuration file %s", path)
	}
	if !ok {
		return nil, principal.Errorf(principal.AccessFailure, "configuration file %s is in use by another session", path)
	}
	return l.Unlock, nil
}

// NoLock performs no locking. It suits in-memory filesystems in tests.
func NoLock(context.Context, string) (func() error, error) {
	return func() error { return nil }, nil
}
