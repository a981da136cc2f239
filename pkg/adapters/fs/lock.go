package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

// LockSuffix names the sentinel of a locked path.
const LockSuffix = ".lock"

const (
	DefaultStaleAfter    = 60 * time.Second
	DefaultRetryInterval = 50 * time.Millisecond
)

// Locker serializes processes on a target path with a sentinel file created
// exclusively next to it. A sentinel older than StaleAfter is presumed
// abandoned by a crashed holder and reclaimed.
//
// Acquisition has no timeout of its own. Cancelling ctx abandons the wait.
type Locker struct {
	StaleAfter    time.Duration
	RetryInterval time.Duration
	Logger        *slog.Logger

	owner string
}

// NewLocker creates a Locker. Zero durations take the defaults.
func NewLocker(staleAfter, retryInterval time.Duration, logger *slog.Logger) *Locker {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Locker{
		StaleAfter:    staleAfter,
		RetryInterval: retryInterval,
		Logger:        logger,
		owner:         uuid.NewString(),
	}
}

// WithLock runs fn while holding the lock on target. The sentinel is removed
// when fn returns, fails or panics.
func (l *Locker) WithLock(ctx context.Context, target string, fn func() error) error {
	lockPath := target + LockSuffix
	if err := l.acquire(ctx, lockPath); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			l.Logger.Error("failed to release lock", "path", lockPath, "error", err)
		}
	}()
	return fn()
}

func (l *Locker) acquire(ctx context.Context, lockPath string) error {
	contended := false
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			// The body is diagnostic only.
			host, _ := os.Hostname()
			fmt.Fprintf(f, "owner=%s pid=%d host=%s\n", l.owner, os.Getpid(), host)
			f.Close()
			return nil
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to acquire lock %s: %w", lockPath, err)
		}

		info, statErr := os.Stat(lockPath)
		if statErr != nil {
			// Released or reclaimed between our create and stat.
			continue
		}
		if age := time.Since(info.ModTime()); age > l.StaleAfter {
			l.Logger.Debug("reclaiming stale lock", "path", lockPath, "age", age)
			if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to remove stale lock %s: %w", lockPath, err)
			}
			continue
		}

		if !contended {
			l.Logger.Debug("lock busy, waiting", "path", lockPath)
			contended = true
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for lock %s: %w", lockPath, ctx.Err())
		case <-time.After(l.RetryInterval):
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
