package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "library.lock"
)

// LibraryLock serializes commands that mutate artwork files, so two gridsync
// processes never race on the same backup.
type LibraryLock struct {
	lock *flock.Flock
	path string
}

// NewLibraryLock creates a lock file under dir. An empty dir selects the
// default location in the user's config directory.
func NewLibraryLock(dir string) (*LibraryLock, error) {
	if dir == "" {
		var err error
		dir, err = defaultLockDir()
		if err != nil {
			return nil, fmt.Errorf("could not resolve lock directory: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create lock directory %s: %w", dir, err)
	}
	lockPath := filepath.Join(dir, lockFileName)
	return &LibraryLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// Lock acquires the library lock, waiting if necessary.
// It will print a message if it has to wait.
func (l *LibraryLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another gridsync process is modifying artwork, waiting for it to finish...\n")
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the library lock.
func (l *LibraryLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// Suppress error if the lock file doesn't exist, as it means we don't hold the lock.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file location.
func (l *LibraryLock) Path() string {
	return l.path
}

func defaultLockDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridsync"), nil
}
