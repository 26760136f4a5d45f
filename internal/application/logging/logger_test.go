package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/application/logging"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
)

func TestFromContext_FallsBackToDiscard(t *testing.T) {
	logger := logging.FromContext(context.Background())

	require.NotNil(t, logger)
	logger.Info("dropped")
}

func TestMiddleware_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	failing := func(context.Context, mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	}

	_, err := logging.Middleware(ctx, struct{ Name string }{}, failing)

	assert.EqualError(t, err, "boom")
	assert.Contains(t, buf.String(), "request failed")
	assert.Contains(t, buf.String(), "error=boom")
}
