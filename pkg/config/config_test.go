package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Initialize(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 0.8, cfg.FIM.Threshold)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestInitialize_LoadsYAMLWithEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IG_DATA_DIR", filepath.Join(dir, "data"))

	yamlContent := `
data_dir: ${IG_DATA_DIR}
scheduler:
  heartbeat_ms: 60000
  min_idle_ms: 1000
  max_tasks_per_hour: 2
  enabled: true
fim:
  threshold: 0.75
  max_trust_debt_units: 3000
  k_e: 0.003
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intentguard.yaml"), []byte(yamlContent), 0o644))

	cfg, err := Initialize(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, 0.75, cfg.FIM.Threshold)
	assert.Equal(t, 2, cfg.Scheduler.MaxTasksPerHour)
}

func TestInitialize_RejectsInvalidFIMThreshold(t *testing.T) {
	dir := t.TempDir()
	yamlContent := `
data_dir: ` + dir + `
fim:
  threshold: 1.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intentguard.yaml"), []byte(yamlContent), 0o644))

	_, err := Initialize(dir)
	assert.Error(t, err)
}

func TestResolveCategoryWeight_UsesOverride(t *testing.T) {
	override := 0.42
	cfg := Default(t.TempDir())
	cfg.Categories = map[string]CategoryOverride{
		"security": {Weight: &override},
	}
	assert.Equal(t, 0.42, cfg.ResolveCategoryWeight("security"))
}

func TestValidate_RejectsNegativeCooldown(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.Tasks = []TaskYAMLConfig{{Name: "t", CooldownMs: -1}}
	assert.Error(t, Validate(&cfg))
}
