package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"noterelay/internal/config"
	"noterelay/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestInfowCtx_IncludesContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))

	ctx := logging.WithRequestID(context.Background(), "req-1")
	ctx = logging.WithWebhookID(ctx, 42)

	log.InfowCtx(ctx, "hello", "extra", "x")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, uint64(42), fields["webhook_id"])
	assert.Equal(t, "x", fields["extra"])
}

func TestWarnwCtx_EmptyContext(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := FromZap(zap.New(core))

	log.WarnwCtx(context.Background(), "careful", "k", "v")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, map[string]interface{}{"k": "v"}, logs.All()[0].ContextMap())
}

func TestNew(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "debug", Format: "console"}, "relay-service")
	require.NoError(t, err)
	assert.NotNil(t, log)

	log, err = New(config.LoggingConfig{Level: "info", Format: "json"}, "relay-service")
	require.NoError(t, err)
	assert.NotNil(t, log)
}
