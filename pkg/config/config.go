// Package config loads and validates IntentGuard's runtime configuration
// (§6 "Configuration"): a single YAML document under a configuration
// directory, environment-expanded before parsing and struct-validated
// before use.
package config

import "github.com/intentguard/core/pkg/category"

// Config is the umbrella runtime configuration (§6): data directory,
// pipeline interval, scheduler tunables, FIM tunables, and optional
// per-category overrides.
type Config struct {
	configDir string

	DataDir            string              `yaml:"data_dir" validate:"required"`
	PipelineIntervalMs int                  `yaml:"pipeline_interval_ms" validate:"min=0"`
	Scheduler          SchedulerYAMLConfig  `yaml:"scheduler"`
	FIM                FIMYAMLConfig        `yaml:"fim"`
	Categories         map[string]CategoryOverride `yaml:"categories,omitempty"`
	Tasks              []TaskYAMLConfig     `yaml:"tasks,omitempty"`
	Index              IndexYAMLConfig      `yaml:"index"`
	API                APIYAMLConfig        `yaml:"api"`
}

// IndexYAMLConfig carries the Postgres connection settings for the
// cross-run history store (§3 DATA MODEL, C5 additive scope). Password
// is expected to arrive via env-expansion (`${IG_INDEX_PASSWORD}`)
// rather than being committed in plaintext.
type IndexYAMLConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"min=0"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// APIYAMLConfig carries the read-only report HTTP server's bind address
// and gin run mode.
type APIYAMLConfig struct {
	Addr    string `yaml:"addr"`
	GinMode string `yaml:"gin_mode"`
}

// SchedulerYAMLConfig mirrors §6 "scheduler: {heartbeatMs, minIdleMs,
// maxTasksPerHour, enabled}".
type SchedulerYAMLConfig struct {
	HeartbeatMs     int  `yaml:"heartbeat_ms" validate:"min=0"`
	MinIdleMs       int  `yaml:"min_idle_ms" validate:"min=0"`
	MaxTasksPerHour int  `yaml:"max_tasks_per_hour" validate:"min=0"`
	Enabled         bool `yaml:"enabled"`
}

// FIMYAMLConfig mirrors §6 "fim: {threshold=0.8, maxTrustDebtUnits=3000,
// k_E=0.003}".
type FIMYAMLConfig struct {
	Threshold         float64 `yaml:"threshold" validate:"min=0,max=1"`
	MaxTrustDebtUnits int     `yaml:"max_trust_debt_units" validate:"min=1"`
	KE                float64 `yaml:"k_e" validate:"min=0,max=1"`
}

// CategoryOverride lets configuration adjust a fixed category's weight,
// color, or keyword list without altering the flat 20-category space
// itself (§4.1 "All other components depend on C1; C1 depends on
// nothing" — overrides are additive, never structural).
type CategoryOverride struct {
	Weight   *float64 `yaml:"weight,omitempty"`
	Color    string   `yaml:"color,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
}

// TaskYAMLConfig declares one scheduler catalog entry: its room, cooldown,
// and the categories it touches. ShouldRun/Prompt logic is bound in code;
// YAML only carries the static shape.
type TaskYAMLConfig struct {
	Name        string   `yaml:"name" validate:"required"`
	Room        string   `yaml:"room"`
	CooldownMs  int      `yaml:"cooldown_ms" validate:"min=0"`
	Categories  []string `yaml:"categories,omitempty"`
}

// ConfigDir returns the directory this configuration was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ResolveCategoryWeight returns the effective weight for category c,
// applying any configured override on top of the default lexicon.
func (c *Config) ResolveCategoryWeight(cat category.Category) float64 {
	if override, ok := c.Categories[string(cat)]; ok && override.Weight != nil {
		return *override.Weight
	}
	return category.DefaultLexicon[cat].Weight
}

// Default returns a Config populated with the calibrated defaults named
// across §4.2/§4.3/§4.4 when no YAML overrides are present.
func Default(dataDir string) Config {
	return Config{
		DataDir:            dataDir,
		PipelineIntervalMs: 0,
		Scheduler: SchedulerYAMLConfig{
			HeartbeatMs:     15 * 60 * 1000,
			MinIdleMs:       5 * 60 * 1000,
			MaxTasksPerHour: 4,
			Enabled:         true,
		},
		FIM: FIMYAMLConfig{
			Threshold:         0.8,
			MaxTrustDebtUnits: category.MaxTrustDebtUnits,
			KE:                0.003,
		},
		Index: IndexYAMLConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "intentguard",
			SSLMode:  "disable",
		},
		API: APIYAMLConfig{
			Addr:    ":8080",
			GinMode: "release",
		},
	}
}
