package core

import (
	"fmt"
	"strings"
)

// ProfileDefaults holds environment-specific default configuration values.
// Profiles provide defaults only; explicit env vars always override.
type ProfileDefaults struct {
	Name                  string
	RequestTimeoutSeconds int
	LogLevel              string
	ReadOnly              bool
	OpsEnabled            bool
}

var profiles = map[string]*ProfileDefaults{
	"dev": {
		Name:                  "dev",
		RequestTimeoutSeconds: 10,
		LogLevel:              "debug",
		ReadOnly:              false,
		OpsEnabled:            false,
	},
	"staging": {
		Name:                  "staging",
		RequestTimeoutSeconds: 10,
		LogLevel:              "info",
		ReadOnly:              false,
		OpsEnabled:            true,
	},
	"prod": {
		Name:                  "prod",
		RequestTimeoutSeconds: 15,
		LogLevel:              "info",
		ReadOnly:              false,
		OpsEnabled:            true,
	},
	"readonly": {
		Name:                  "readonly",
		RequestTimeoutSeconds: 10,
		LogLevel:              "info",
		ReadOnly:              true,
		OpsEnabled:            true,
	},
}

// LoadProfile returns profile defaults for the given name.
// Empty name defaults to "dev". Unknown names return an error.
func LoadProfile(name string) (*ProfileDefaults, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = "dev"
	}
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (valid: dev, staging, prod, readonly)", name)
	}
	out := *p
	return &out, nil
}
