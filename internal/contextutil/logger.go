// Package contextutil carries the per-request logger through the request
// context so middleware and handlers agree on a single key.
package contextutil

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

// LoggerFromContext returns the request logger stored in ctx, falling back
// to slog.Default when none was set.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// LoggerKey is the key middleware uses to store the request logger in ctx.
func LoggerKey() contextKey {
	return loggerKey
}
