package grpc

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/orbit-go/internal/application/logging"
)

// RateLimitInterceptor rejects calls beyond the limiter's rate with
// ResourceExhausted
func RateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor puts logger in the request context and logs every call
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		l := logger.With("method", info.FullMethod)
		started := time.Now()
		resp, err := handler(logging.WithLogger(ctx, l), req)
		if err != nil {
			l.Warn("rpc failed", "code", status.Code(err).String(), "error", err, "elapsed", time.Since(started))
			return nil, err
		}
		l.Info("rpc handled", "elapsed", time.Since(started))
		return resp, nil
	}
}
