package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned when another forkflow process holds the lock.
var ErrLocked = errors.New("another forkflow operation is running in this repository")

// lockFile is the name of the lock inside the state directory.
const lockFile = "lock"

// FileLock is an exclusive flock on a file in the state directory.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock returns the lock of the state directory dir.
func NewFileLock(dir string) *FileLock {
	return &FileLock{path: filepath.Join(dir, lockFile)}
}

// TryLock acquires the lock without waiting. It returns ErrLocked when the
// lock is held elsewhere.
func (l *FileLock) TryLock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrLocked
		}
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	l.file = f
	return nil
}

// Unlock releases the lock. Unlocking an unheld lock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}

// LockRepo takes the lock of the repository whose git common dir is
// gitCommonDir. The returned func releases it.
func LockRepo(gitCommonDir string) (func() error, error) {
	dir, err := StateDir(gitCommonDir)
	if err != nil {
		return nil, err
	}
	lock := NewFileLock(dir)
	if err := lock.TryLock(); err != nil {
		return nil, err
	}
	return lock.Unlock, nil
}
