package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"noterelay/internal/config"
	"noterelay/pkg/logging"
)

// Logger is the structured logger shared by every component. The *wCtx
// variants prepend request-scoped fields carried in ctx.
type Logger interface {
	Info(args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalf(template string, args ...interface{})
	Sync() error

	InfowCtx(ctx context.Context, msg string, keysAndValues ...interface{})
	WarnwCtx(ctx context.Context, msg string, keysAndValues ...interface{})
	ErrorwCtx(ctx context.Context, msg string, keysAndValues ...interface{})
}

type SugaredLogger struct {
	*zap.SugaredLogger
}

// New builds a production zap logger tagged with serviceName. Format "console"
// switches to the human-readable encoder; anything else logs JSON.
func New(cfg config.LoggingConfig, serviceName string) (Logger, error) {
	zcfg := zap.NewProductionConfig()

	zcfg.Encoding = "json"
	if cfg.Format == "console" {
		zcfg.Encoding = "console"
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	zcfg.EncoderConfig.MessageKey = "message"
	zcfg.EncoderConfig.TimeKey = "timestamp"
	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zcfg.InitialFields = map[string]interface{}{
		string(logging.ServiceNameKey): serviceName,
	}

	zapLogger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return FromZap(zapLogger), nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *SugaredLogger) InfowCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Infow(msg, withContext(ctx, keysAndValues)...)
}

func (l *SugaredLogger) WarnwCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Warnw(msg, withContext(ctx, keysAndValues)...)
}

func (l *SugaredLogger) ErrorwCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Errorw(msg, withContext(ctx, keysAndValues)...)
}

func withContext(ctx context.Context, keysAndValues []interface{}) []interface{} {
	return append(logging.GetLogFields(ctx), keysAndValues...)
}

// NopLogger discards everything.
func NopLogger() Logger {
	return FromZap(zap.NewNop())
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &SugaredLogger{SugaredLogger: z.Sugar()}
}
