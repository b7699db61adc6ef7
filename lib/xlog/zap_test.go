package xlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/infra"
)

func TestXLogger_AllLevels(t *testing.T) {
	logger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriter(StdOut),
		WithXLoggerConsoleCore(),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	)
	require.NotNil(t, logger)

	logger.Debug("debug message", zap.Int("count", 1))
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error(infra.NewErrorStack("boom"), "error message")
	logger.ErrorStack(infra.WrapErrorStackWithMessage(infra.NewErrorStack("root cause"), "wrapped"), "error with stack")
	logger.ErrorStackf(infra.NewErrorStack("fmt cause"), "formatted %d", 42)
	logger.Logf(zapcore.InfoLevel, "formatted %s", "info")
	require.NoError(t, logger.Sync())
}

func TestXLogger_IncreaseLogLevel(t *testing.T) {
	logger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(PlainText),
	)
	logger.Debug("visible")
	logger.IncreaseLogLevel(zapcore.WarnLevel)
	logger.Debug("suppressed")
	logger.Info("suppressed")
	logger.Warn("visible")
	logger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Debug("visible again")
	_ = logger.Sync()
}

func TestXLogger_ContextFieldExtract(t *testing.T) {
	logger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerContextFieldExtract("traceId", ContextKeyMapToItself),
		WithXLoggerContextFieldExtract("spanId", "span"),
	)

	type ctxKey = string
	ctx := context.WithValue(context.Background(), ctxKey("traceId"), "abc-123")
	ctx = context.WithValue(ctx, ctxKey("spanId"), "span-7")

	logger.DebugContext(ctx, "with trace fields")
	logger.InfoContext(ctx, "with trace fields")
	logger.WarnContext(ctx, "with trace fields")
	logger.ErrorContext(ctx, infra.NewErrorStack("ctx err"), "with trace fields")
	logger.ErrorStackContext(ctx, infra.NewErrorStack("ctx err"), "with trace fields")
	_ = logger.Sync()
}

func TestXLogger_InvalidOptionPanics(t *testing.T) {
	require.Panics(t, func() {
		_ = NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		_ = NewXLogger(WithXLoggerWriter(_writerMax))
	})
}

type testBanner struct{}

func (b *testBanner) JSON() string      { return `{"app":"xtree"}` }
func (b *testBanner) PlainText() string { return "xtree" }

func TestXLogger_Banner(t *testing.T) {
	logger := NewXLogger(WithXLoggerLevel(LogLevelInfo))
	logger.Banner(&testBanner{})
	_ = logger.Sync()
}
