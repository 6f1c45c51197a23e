// Package locks implements the best-effort file lock coordinating access
// to a shared git working tree (§5 "Shared mutable resources"). The lock
// file stores the holder's PID; a holder whose process is no longer alive
// may have its lock reclaimed after a bounded wait (§9 "Scheduler +
// locks").
package locks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// FileLock is a PID-stamped lock file at a fixed path. It is never held
// across suspension points outside the critical section it guards.
type FileLock struct {
	path string
}

// New returns a FileLock at path. The file is not created until Acquire.
func New(path string) *FileLock {
	return &FileLock{path: path}
}

type lockPayload struct {
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// Acquire takes the lock, reclaiming it from a stale holder if the
// existing holder's PID is no longer alive and staleAfter has elapsed
// since it was written.
func (l *FileLock) Acquire(staleAfter time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("locks: mkdir: %w", err)
	}

	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			payload := lockPayload{PID: os.Getpid(), AcquiredAt: time.Now()}
			data, _ := json.Marshal(payload)
			if _, werr := f.Write(data); werr != nil {
				f.Close()
				os.Remove(l.path)
				return fmt.Errorf("locks: write lock payload: %w", werr)
			}
			return f.Close()
		}
		if !os.IsExist(err) {
			return fmt.Errorf("locks: create lock file: %w", err)
		}

		existing, readErr := l.read()
		if readErr != nil {
			// Corrupt or unreadable lock file; treat as reclaimable.
			if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
				return fmt.Errorf("locks: remove corrupt lock: %w", removeErr)
			}
			continue
		}

		if !processAlive(existing.PID) && time.Since(existing.AcquiredAt) > staleAfter {
			if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
				return fmt.Errorf("locks: remove stale lock: %w", removeErr)
			}
			continue
		}

		return fmt.Errorf("locks: held by pid %d since %s", existing.PID, existing.AcquiredAt)
	}
}

// Release removes the lock file, but only if still held by this process.
func (l *FileLock) Release() error {
	existing, err := l.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("locks: read lock before release: %w", err)
	}
	if existing.PID != os.Getpid() {
		return fmt.Errorf("locks: lock held by pid %d, not this process", existing.PID)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("locks: release: %w", err)
	}
	return nil
}

func (l *FileLock) read() (lockPayload, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return lockPayload{}, err
	}
	var payload lockPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return lockPayload{}, fmt.Errorf("locks: decode lock payload: %w", err)
	}
	return payload, nil
}

// processAlive reports whether pid refers to a live process, by sending
// signal 0 (no-op delivery, pure liveness probe).
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
