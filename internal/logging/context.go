package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

type requestLoggerContextKey struct{}

// NOTE: Logs to the fallback logger when no logger has been added to the
// context. Request handlers should attach one with AddToContext.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(requestLoggerContextKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return fallbackLogger()
	}
	return logger
}

var fallbackLogger = sync.OnceValue(func() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("logger", "fallback"))
})

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerContextKey{}, logger)
}

func AddMetaToContext(ctx context.Context, args ...slog.Attr) context.Context {
	logger := FromContext(ctx)

	// slog.Logger.With takes ...any
	anyArgs := make([]any, 0, len(args))
	for _, arg := range args {
		anyArgs = append(anyArgs, arg)
	}

	return AddToContext(ctx, logger.With(anyArgs...))
}
