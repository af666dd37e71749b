package graph

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// PanicLogger reports resolver panics through slog. graphql-go recovers the
// panic and turns it into a field error.
type PanicLogger struct {
	Logger *slog.Logger
}

func (l PanicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(ctx, "graphql: resolver panic", "panic", value, "stack", string(debug.Stack()))
}
