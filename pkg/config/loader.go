package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileName is the single YAML document Initialize reads from configDir.
const fileName = "intentguard.yaml"

// Initialize loads, environment-expands, defaults, and validates
// configuration from configDir/intentguard.yaml (§6 "Configuration"). A
// missing file is not an error: Initialize returns the calibrated
// defaults so the core can run with zero configuration.
func Initialize(configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)

	path := filepath.Join(configDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("no config file found, using defaults", "path", path)
			cfg := Default(configDir)
			cfg.configDir = configDir
			return &cfg, nil
		}
		return nil, NewLoadError(path, err)
	}

	expanded := ExpandEnv(data)

	cfg := Default(configDir)
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidYAML, path, err)
	}
	cfg.configDir = configDir
	if cfg.DataDir == "" {
		cfg.DataDir = configDir
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	log.Info("configuration initialized", "data_dir", cfg.DataDir, "scheduler_enabled", cfg.Scheduler.Enabled)
	return &cfg, nil
}
