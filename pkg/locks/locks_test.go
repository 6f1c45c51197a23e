package locks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_AcquireReleaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "git.lock")
	lock := New(path)

	require.NoError(t, lock.Acquire(time.Minute))
	require.FileExists(t, path)
	require.NoError(t, lock.Release())
	assert.NoFileExists(t, path)
}

func TestFileLock_AcquireFailsWhileHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "git.lock")
	lock := New(path)
	require.NoError(t, lock.Acquire(time.Minute))

	second := New(path)
	err := second.Acquire(time.Minute)
	assert.Error(t, err)
}

func TestFileLock_ReclaimsStaleLockFromDeadPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "git.lock")

	payload := lockPayload{PID: 999999, AcquiredAt: time.Now().Add(-time.Hour)}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	lock := New(path)
	require.NoError(t, lock.Acquire(time.Minute))
	require.NoError(t, lock.Release())
}

func TestFileLock_DoesNotReclaimBeforeStaleAfter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "git.lock")

	payload := lockPayload{PID: 999999, AcquiredAt: time.Now()}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	lock := New(path)
	err = lock.Acquire(time.Hour)
	assert.Error(t, err)
}

func TestFileLock_RemovesCorruptLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "git.lock")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	lock := New(path)
	require.NoError(t, lock.Acquire(time.Minute))
	require.NoError(t, lock.Release())
}
