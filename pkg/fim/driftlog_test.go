package fim

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/intentguard/core/pkg/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriftLog_AppendAndCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fim-deny-log.jsonl")
	log := NewDriftLog(path)

	count, err := log.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 3; i++ {
		err := log.RecordDenial("deploy", 0.5, 0.4, []category.Category{category.Security}, time.Now())
		require.NoError(t, err)
	}

	count, err = log.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDriftLog_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fim-deny-log.jsonl")
	log := NewDriftLog(path)

	require.NoError(t, log.RecordDenial("deploy", 0.5, 0.4, nil, time.Now()))
	require.NoError(t, log.Reset())

	count, err := log.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDriftLog_ResetNonexistentIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.jsonl")
	log := NewDriftLog(path)
	assert.NoError(t, log.Reset())
}

func TestRecoveryPath_MonotonicSovereigntyIncrease(t *testing.T) {
	path := RecoveryPath(3000, 100, category.MaxTrustDebtUnits, DefaultEntropicDecay, 5)
	require.Len(t, path, 6)

	for i := 1; i < len(path); i++ {
		assert.GreaterOrEqual(t, path[i].SovereigntyAtStage, path[i-1].SovereigntyAtStage)
		assert.LessOrEqual(t, path[i].UnitsAtStage, path[i-1].UnitsAtStage)
	}
	assert.Equal(t, 0.0, path[len(path)-1].UnitsAtStage)
}
