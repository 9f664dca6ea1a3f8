package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Create a slog.Handler that adds Google Cloud Trace fields to log records
//
// NOTE: Requires the use of the *Context slog methods to get the tracing info
func NewGoogleCloudTracingLogHandler(baseHandler slog.Handler, project string) *googleCloudTracingLogHandler {
	return &googleCloudTracingLogHandler{
		base: baseHandler,
		// https://docs.cloud.google.com/logging/docs/agent/logging/configuration#special-fields
		tracePrefix: fmt.Sprintf("projects/%s/traces/", project),
	}
}

type googleCloudTracingLogHandler struct {
	base        slog.Handler
	tracePrefix string
}

func (h *googleCloudTracingLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *googleCloudTracingLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		// Associate the record in google cloud with the active trace/span
		r.AddAttrs(
			slog.String("logging.googleapis.com/trace", h.tracePrefix+sc.TraceID().String()),
			slog.String("logging.googleapis.com/spanId", sc.SpanID().String()),
			slog.Bool("logging.googleapis.com/trace_sampled", sc.TraceFlags().IsSampled()),
		)
	}
	return h.base.Handle(ctx, r)
}

func (h *googleCloudTracingLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &googleCloudTracingLogHandler{base: h.base.WithAttrs(attrs), tracePrefix: h.tracePrefix}
}

func (h *googleCloudTracingLogHandler) WithGroup(name string) slog.Handler {
	return &googleCloudTracingLogHandler{base: h.base.WithGroup(name), tracePrefix: h.tracePrefix}
}

// Type assertion
var _ slog.Handler = (*googleCloudTracingLogHandler)(nil)
