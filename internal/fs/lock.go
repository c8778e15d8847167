package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another mdsync process is writing the same file.
var ErrLocked = errors.New("file is locked by another writer")

const lockPollInterval = 10 * time.Millisecond

// lockTimeout bounds how long Save waits for a concurrent writer.
var lockTimeout = 2 * time.Second

// lockPath returns the hidden sibling file that guards writes to path.
func lockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// withLock runs fn while holding an exclusive OS-level lock for path. The
// lock file is removed afterwards.
func withLock(path string, fn func() error) error {
	fileLock := flock.New(lockPath(path))

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := fileLock.TryLockContext(ctx, lockPollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("save %s: %w", path, ErrLocked)
		}
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("save %s: %w", path, ErrLocked)
	}
	defer func() {
		_ = fileLock.Unlock()
		_ = os.Remove(fileLock.Path())
	}()
	return fn()
}
