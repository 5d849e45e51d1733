package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"noterelay/internal/config"
)

func TestInit_Disabled(t *testing.T) {
	tp, err := Init(config.TracingConfig{Enabled: false}, "relay-service")
	require.NoError(t, err)
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), createSampler(config.SamplerConfig{Type: "always_off"}).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), createSampler(config.SamplerConfig{}).Description())
	assert.Equal(t,
		sdktrace.TraceIDRatioBased(0.25).Description(),
		createSampler(config.SamplerConfig{Type: "traceidratio", Param: 0.25}).Description(),
	)
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
}

func TestResolveServiceName(t *testing.T) {
	assert.Equal(t, "custom", resolveServiceName(config.TracingConfig{ServiceName: "custom"}, "relay-service"))
	assert.Equal(t, "relay-service", resolveServiceName(config.TracingConfig{}, "relay-service"))
	assert.Equal(t, "relay-service", resolveServiceName(config.TracingConfig{}, ""))
}

func TestUntracedPaths(t *testing.T) {
	assert.True(t, untracedPaths["/health"])
	assert.True(t, untracedPaths["/metrics"])
	assert.False(t, untracedPaths["/discord/1/t/misskey"])
}
