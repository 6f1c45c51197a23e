package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct-tag validation over cfg and layers the core's own
// cross-field invariants (git_force_push-style stringency floors live in
// pkg/fim, not here — this only checks the configuration's own shape).
func Validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	for name, override := range cfg.Categories {
		if override.Weight != nil && (*override.Weight < 0 || *override.Weight > 1) {
			return fmt.Errorf("config: category %q override weight %.3f out of [0,1]", name, *override.Weight)
		}
	}

	for _, task := range cfg.Tasks {
		if task.CooldownMs < 0 {
			return fmt.Errorf("config: task %q has negative cooldown", task.Name)
		}
	}

	return nil
}
