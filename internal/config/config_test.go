package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-roller/internal/config"
	"github.com/KirkDiggler/rpg-roller/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvironmentDevelopment, cfg.Environment)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "dnd5e", cfg.DefaultSystem)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.SRDSkills)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ROLLER_ENVIRONMENT", "production")
	t.Setenv("ROLLER_LOG_LEVEL", "DEBUG")
	t.Setenv("ROLLER_GRPC_PORT", "6000")
	t.Setenv("ROLLER_REDIS_ADDR", "redis-a:6379,redis-b:6379")
	t.Setenv("ROLLER_REDIS_CLUSTER", "true")
	t.Setenv("ROLLER_DEFAULT_SYSTEM", "percentile")
	t.Setenv("ROLLER_SESSION_TTL", "1h")
	t.Setenv("ROLLER_SRD_SKILLS", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.True(t, cfg.RedisCluster)
	assert.Equal(t, "percentile", cfg.DefaultSystem)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SRDSkills)
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ROLLER_GRPC_PORT", "not-a-port")

	_, err := config.Load()
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*config.Config)
		field  string
	}{
		{name: "unknown environment", modify: func(c *config.Config) { c.Environment = "staging" }, field: "Environment"},
		{name: "unknown log level", modify: func(c *config.Config) { c.LogLevel = "loud" }, field: "LogLevel"},
		{name: "port out of range", modify: func(c *config.Config) { c.GRPCPort = 70000 }, field: "GRPCPort"},
		{name: "missing redis", modify: func(c *config.Config) { c.RedisAddr = " " }, field: "RedisAddr"},
		{name: "missing system", modify: func(c *config.Config) { c.DefaultSystem = "" }, field: "DefaultSystem"},
		{name: "zero ttl", modify: func(c *config.Config) { c.SessionTTL = 0 }, field: "SessionTTL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.Load()
			require.NoError(t, err)
			tc.modify(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))

			fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
			require.True(t, ok)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	levels := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range levels {
		cfg := &config.Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
