// Package config loads storymcp settings. Precedence, lowest first: profile
// defaults, environment (optionally seeded from a .env file), flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/chatstory/storymcp/internal/core"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the process configuration. Pointer and zero-valued fields
// are filled from the selected profile by Parse.
type Config struct {
	Profile        string        `env:"STORYMCP_PROFILE" envDefault:"dev"`
	APIURL         string        `env:"CHATSTORYAI_API_URL" envDefault:"https://chatstory-ai.vercel.app"`
	APIKey         string        `env:"CHATSTORYAI_API_KEY"`
	RequestTimeout time.Duration `env:"STORYMCP_REQUEST_TIMEOUT"`
	Transport      string        `env:"STORYMCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr       string        `env:"STORYMCP_HTTP_ADDR" envDefault:"127.0.0.1:8090"`
	OpsEnabled     *bool         `env:"STORYMCP_OPS_ENABLED"`
	LogLevel       string        `env:"STORYMCP_LOG_LEVEL"`
	ToolAllowlist  string        `env:"STORYMCP_TOOL_ALLOWLIST"`
	ReadOnly       *bool         `env:"STORYMCP_READ_ONLY"`
	DatabaseURL    string        `env:"STORYMCP_DATABASE_URL"`
	OTelEndpoint   string        `env:"STORYMCP_OTEL_ENDPOINT"`
	OTelEnabled    bool          `env:"STORYMCP_OTEL_ENABLED" envDefault:"true"`
	ServiceName    string        `env:"STORYMCP_SERVICE_NAME" envDefault:"storymcp"`
}

// Load reads an optional .env file from the working directory and then
// parses the environment and flags.
func Load(fset *flag.FlagSet, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(fset, args)
}

// Parse builds a Config from the current environment and args, applies
// profile defaults and validates the result.
func Parse(fset *flag.FlagSet, args []string) (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fset.StringVar(&cfg.Profile, "profile", cfg.Profile, "config profile: dev, staging, prod or readonly")
	fset.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio or http")
	fset.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "listen address for the HTTP transport and ops endpoints")
	fset.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "ChatStoryAI API base URL")
	fset.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	profile, err := core.LoadProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}
	cfg.applyProfile(profile)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyProfile(p *core.ProfileDefaults) {
	c.Profile = p.Name
	if c.RequestTimeout == 0 {
		c.RequestTimeout = time.Duration(p.RequestTimeoutSeconds) * time.Second
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = p.LogLevel
	}
	if c.ReadOnly == nil {
		v := p.ReadOnly
		c.ReadOnly = &v
	}
	if c.OpsEnabled == nil {
		v := p.OpsEnabled
		c.OpsEnabled = &v
	}
}

func (c *Config) validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport != TransportStdio && c.Transport != TransportHTTP {
		return fmt.Errorf("invalid transport %q (valid: stdio, http)", c.Transport)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid request timeout %s", c.RequestTimeout)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Transport == TransportHTTP && strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("http transport requires STORYMCP_HTTP_ADDR")
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c *Config) IsReadOnly() bool { return c.ReadOnly != nil && *c.ReadOnly }

// ServeOps reports whether the ops HTTP server should run. The HTTP
// transport always serves ops endpoints next to /mcp.
func (c *Config) ServeOps() bool {
	return c.Transport == TransportHTTP || (c.OpsEnabled != nil && *c.OpsEnabled)
}
