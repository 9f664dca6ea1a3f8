package logging_test

import (
	"log/slog"
	"testing"

	"github.com/fairwaylabs/teeline/internal/logging"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestGoogleCloudTracingLogHandler(t *testing.T) {
	t.Parallel()

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	spanContext := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	t.Run("annotates records with the active span", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t)
		logger := slog.New(logging.NewGoogleCloudTracingLogHandler(slog.NewJSONHandler(w, nil), "teeline-academy"))

		ctx := trace.ContextWithSpanContext(t.Context(), spanContext)
		logger.InfoContext(ctx, "test")

		entry, ok := w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, map[string]any{
			"level": "INFO",
			"msg":   "test",
			"logging.googleapis.com/trace":         "projects/teeline-academy/traces/0123456789abcdef0123456789abcdef",
			"logging.googleapis.com/spanId":        "0123456789abcdef",
			"logging.googleapis.com/trace_sampled": true,
		}, entry)
		w.RequireEmpty()
	})

	t.Run("leaves records without a span untouched", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t)
		logger := slog.New(logging.NewGoogleCloudTracingLogHandler(slog.NewJSONHandler(w, nil), "teeline-academy"))

		logger.Info("test")

		entry, ok := w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, map[string]any{
			"level": "INFO",
			"msg":   "test",
		}, entry)
		w.RequireEmpty()
	})

	t.Run("keeps attrs added with With", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t)
		logger := slog.New(logging.NewGoogleCloudTracingLogHandler(slog.NewJSONHandler(w, nil), "teeline-academy"))

		ctx := trace.ContextWithSpanContext(t.Context(), spanContext)
		logger.With("port", "leaderboard").InfoContext(ctx, "test")

		entry, ok := w.PopWithoutTime()
		require.True(t, ok)
		require.Equal(t, "leaderboard", entry["port"])
		require.Equal(t, "projects/teeline-academy/traces/0123456789abcdef0123456789abcdef", entry["logging.googleapis.com/trace"])
		w.RequireEmpty()
	})
}
