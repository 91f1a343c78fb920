package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Prefix namespaces every provenance environment variable.
const Prefix = "PROVENANCE_"

// ParseEnv loads configuration from PROVENANCE_-prefixed environment variables.
func ParseEnv(target any) error {
	return ParseEnvWithPrefix(target, Prefix)
}

// ParseEnvWithPrefix loads configuration from environment variables whose
// names start with prefix. Struct tags hold the unprefixed name.
func ParseEnvWithPrefix(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
