// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg, a pointer to a struct, from environment variables named by
// its `env` tags. Fields fall back to `envDefault`. Durations use
// time.ParseDuration syntax and slices are comma separated unless the field
// sets `envSeparator`.
func Load(cfg any) error {
	return LoadWithPrefix(cfg, "")
}

// LoadWithPrefix is Load with every variable name prefixed, so two
// components can read the same struct from different variables.
func LoadWithPrefix(cfg any, prefix string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
