package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-roller/internal/config"
	"github.com/KirkDiggler/rpg-roller/internal/logger"
)

func TestSetupProductionWritesJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := logger.SetupWriter(&config.Config{Environment: config.EnvironmentProduction, LogLevel: "info"}, &buf)

	l.Info("Dice rolled successfully", "entity_id", "player_1")
	l.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Dice rolled successfully", entry["msg"])
	assert.Equal(t, "player_1", entry["entity_id"])
}

func TestSetupDevelopmentWritesText(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger.SetupWriter(&config.Config{Environment: config.EnvironmentDevelopment, LogLevel: "debug"}, &buf)

	slog.Debug("roll parsed", "terms", 3)
	assert.Contains(t, buf.String(), "msg=\"roll parsed\"")
	assert.Contains(t, buf.String(), "terms=3")
}

func TestInterceptorLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.InterceptorLogger(l).Log(context.Background(), grpc_logging.LevelWarn, "finished call", "grpc.code", "InvalidArgument")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "grpc.code=InvalidArgument")
}
