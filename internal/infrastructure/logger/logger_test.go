package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		l := New(config.LogConfig{Level: "info", Format: "json", Output: "stdout"})
		require.NotNil(t, l)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("console at debug", func(t *testing.T) {
		l := New(config.LogConfig{Level: "debug", Format: "console", Output: "stderr"})
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("writes to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pos.log")
		l := New(config.LogConfig{Level: "info", Format: "json", Output: path})
		l.Info("invoice issued", zap.String("document_number", "FV000001"))
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "FV000001")
	})
}

func TestFromContext(t *testing.T) {
	t.Run("falls back when nothing is stored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		FromContext(context.Background(), zap.New(core)).Info("hello")

		require.Len(t, recorded.All(), 1)
		assert.Empty(t, recorded.All()[0].Context)
	})

	t.Run("nil fallback yields a no-op logger", func(t *testing.T) {
		assert.NotPanics(t, func() {
			FromContext(context.Background(), nil).Info("dropped")
		})
	})

	t.Run("adds request, user and trace ids", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx := WithContext(context.Background(), zap.New(core))
		ctx = WithRequestID(ctx, "req-1")
		ctx = WithUserID(ctx, "cashier-7")
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}))

		FromContext(ctx, nil).Info("step")

		entry := recorded.All()[0].ContextMap()
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, "cashier-7", entry["user_id"])
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
	})

	t.Run("getters return empty strings when unset", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
		assert.Empty(t, GetUserID(context.Background()))
	})
}
