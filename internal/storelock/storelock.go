package storelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"yt2audio/internal/textutil"
)

// ErrBusy is returned when another process holds the lock for the same movie.
var ErrBusy = errors.New("movie is being processed by another run")

// retryDelay is how often Acquire polls a held lock.
const retryDelay = 250 * time.Millisecond

// Lock is an exclusive per-movie lock inside the store directory.
type Lock struct {
	lock *flock.Flock
}

// Path returns the lock file location for movieID in dir.
func Path(dir, movieID string) string {
	return filepath.Join(dir, ".locks", textutil.SanitizeToken(movieID)+".lock")
}

// TryAcquire takes the lock without waiting and returns ErrBusy when it is held.
func TryAcquire(dir, movieID string) (*Lock, error) {
	l, err := newLock(dir, movieID)
	if err != nil {
		return nil, err
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return l, nil
}

// Acquire waits for the lock until ctx is done, then returns ErrBusy.
func Acquire(ctx context.Context, dir, movieID string) (*Lock, error) {
	l, err := newLock(dir, movieID)
	if err != nil {
		return nil, err
	}
	ok, err := l.lock.TryLockContext(ctx, retryDelay)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrBusy, ctx.Err())
	}
	return l, nil
}

// Release unlocks. Releasing a nil Lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

func newLock(dir, movieID string) (*Lock, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("lock directory required")
	}
	path := Path(dir, movieID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	return &Lock{lock: flock.New(path)}, nil
}
