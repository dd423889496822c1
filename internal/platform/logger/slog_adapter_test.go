package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter_ContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSlogAdapterWithWriter(&buf, "production", "info")

	ctx := logger.WithAttrs(context.Background(), "request_id", "req-1")
	ctx = logger.WithAttrs(ctx, "user_id", "u-42")
	log.Info(ctx, "post created", "post_id", "p-7")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "post created", record["msg"])
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "u-42", record["user_id"])
	assert.Equal(t, "p-7", record["post_id"])
}

func TestSlogAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSlogAdapterWithWriter(&buf, "production", "warn")

	log.Info(context.Background(), "ignored")
	assert.Zero(t, buf.Len())

	log.Warn(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSlogAdapter_DevelopmentUsesText(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSlogAdapterWithWriter(&buf, "development", "debug")

	log.Debug(context.Background(), "toggle", "kind", "follow")

	assert.Contains(t, buf.String(), "msg=toggle")
	assert.Contains(t, buf.String(), "kind=follow")
}

func TestBootstrapLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewBootstrapLoggerWithWriter(&buf)

	log.Info(context.Background(), "configuration loaded", "environment", "production", "dangling")

	line := buf.String()
	assert.Contains(t, line, "[BOOTSTRAP] ")
	assert.Contains(t, line, "INFO configuration loaded environment=production !BADKEY=dangling")
}
