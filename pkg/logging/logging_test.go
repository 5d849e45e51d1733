package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEarlyLog(t *testing.T) {
	var out, errOut bytes.Buffer
	l := &EarlyLog{out: &out, err: &errOut}

	l.Error("failed to load config: %v", "boom")
	l.Info("starting")

	assert.Equal(t, "ERROR [relay-service]: failed to load config: boom\n", errOut.String())
	assert.Equal(t, "INFO [relay-service]: starting\n", out.String())
}

func TestContextFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetLogFields(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithWebhookID(ctx, 42)
	ctx = WithEventType(ctx, "note")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	id, ok := GetWebhookID(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, "note", GetEventType(ctx))

	fields := GetLogFields(ctx)
	assert.Contains(t, fields, "request_id")
	assert.Contains(t, fields, "webhook_id")
	assert.Contains(t, fields, "event_type")
}
