package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrTimeout is returned by Do when the lock stays held past the timeout.
var ErrTimeout = errors.New("timed out waiting for lock")

// FileLock is an exclusive-create lock file, good enough to keep two
// `lateshow seed` runs on one host from interleaving.
type FileLock struct {
	dir    string
	logger *slog.Logger
}

// NewFileLock creates a lock rooted at dir; an empty dir means the system temp dir.
func NewFileLock(dir string, logger *slog.Logger) *FileLock {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "lateshow-locks")
	}
	return &FileLock{dir: dir, logger: logger}
}

// TryLock attempts to acquire a lock with the given key and timeout
func (fl *FileLock) TryLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	lockFile := fl.path(key)

	if err := os.MkdirAll(fl.dir, 0750); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		// #nosec G304 - lockFile is built from the configured dir and a fixed key
		file, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err != nil {
			if !os.IsExist(err) {
				return false, fmt.Errorf("failed to create lock file: %w", err)
			}

			if fl.isStale(lockFile, timeout*2) {
				fl.logger.Warn("Removing stale lock file", slog.String("file", lockFile))
				if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
					fl.logger.Error("Failed to remove stale lock file", slog.String("file", lockFile), slog.Any("error", err))
				}
				continue
			}

			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		_, werr := fmt.Fprintf(file, "%d\n%d\n", time.Now().Unix(), os.Getpid())
		cerr := file.Close()
		if err := errors.Join(werr, cerr); err != nil {
			_ = os.Remove(lockFile)
			return false, fmt.Errorf("failed to write lock file: %w", err)
		}

		fl.logger.Debug("Acquired lock", slog.String("key", key), slog.String("file", lockFile))
		return true, nil
	}

	return false, nil
}

// Unlock releases the lock for the given key
func (fl *FileLock) Unlock(key string) error {
	lockFile := fl.path(key)

	if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	fl.logger.Debug("Released lock", slog.String("key", key), slog.String("file", lockFile))
	return nil
}

// Do runs fn while holding key.
func (fl *FileLock) Do(ctx context.Context, key string, timeout time.Duration, fn func() error) error {
	ok, err := fl.TryLock(ctx, key, timeout)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrTimeout)
	}
	defer func() {
		if err := fl.Unlock(key); err != nil {
			fl.logger.Error("Failed to release lock", slog.String("key", key), slog.Any("error", err))
		}
	}()
	return fn()
}

func (fl *FileLock) path(key string) string {
	return filepath.Clean(filepath.Join(fl.dir, filepath.Base(key)+".lock"))
}

// isStale reports whether lockFile is older than staleAfter.
func (fl *FileLock) isStale(lockFile string, staleAfter time.Duration) bool {
	info, err := os.Stat(lockFile)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > staleAfter
}
