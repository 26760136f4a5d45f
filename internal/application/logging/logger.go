// Package logging carries a structured logger through request contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
)

type contextKey int

const loggerKey contextKey = iota

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a logger that
// discards everything
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}

// Middleware logs every mediator request with its type, duration and error
func Middleware(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
	logger := FromContext(ctx).With("request", fmt.Sprintf("%T", request))
	started := time.Now()
	resp, err := next(WithLogger(ctx, logger), request)
	if err != nil {
		logger.Error("request failed", "error", err, "elapsed", time.Since(started))
		return nil, err
	}
	logger.Debug("request handled", "elapsed", time.Since(started))
	return resp, nil
}
