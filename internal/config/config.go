// Package config loads server configuration from the environment
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

// Environments
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Config holds every setting the server reads from ROLLER_* variables
type Config struct {
	Environment string `env:"ROLLER_ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"ROLLER_LOG_LEVEL"   envDefault:"info"`
	GRPCPort    int    `env:"ROLLER_GRPC_PORT"   envDefault:"50051"`

	// RedisAddr is a single endpoint, or a comma separated list when
	// RedisCluster is set
	RedisAddr    string `env:"ROLLER_REDIS_ADDR"    envDefault:"localhost:6379"`
	RedisCluster bool   `env:"ROLLER_REDIS_CLUSTER"`
	RedisTLS     bool   `env:"ROLLER_REDIS_TLS"`

	DefaultSystem string        `env:"ROLLER_DEFAULT_SYSTEM" envDefault:"dnd5e"`
	SessionTTL    time.Duration `env:"ROLLER_SESSION_TTL"    envDefault:"15m"`

	// SRDSkills replaces the embedded dnd5e skill table with the one served
	// by the SRD API at startup
	SRDSkills  bool   `env:"ROLLER_SRD_SKILLS"`
	SRDBaseURL string `env:"ROLLER_SRD_BASE_URL"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateEnum("Environment", c.Environment,
		[]string{EnvironmentDevelopment, EnvironmentProduction}, vb)
	errors.ValidateEnum("LogLevel", strings.ToLower(c.LogLevel),
		[]string{"debug", "info", "warn", "warning", "error"}, vb)
	errors.ValidateRange("GRPCPort", c.GRPCPort, 1, 65535, vb)
	errors.ValidateRequired("RedisAddr", c.RedisAddr, vb)
	errors.ValidateRequired("DefaultSystem", c.DefaultSystem, vb)

	if c.SessionTTL <= 0 {
		vb.InvalidField("SessionTTL", "must be positive")
	}

	return vb.Build()
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// SlogLevel converts LogLevel for slog.HandlerOptions
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
