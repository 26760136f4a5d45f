package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

// ServerOptions configures a DaemonServer
type ServerOptions struct {
	// Address is host:port, or unix:<path> for a Unix domain socket
	Address         string
	RateLimit       rate.Limit
	Burst           int
	ShutdownTimeout time.Duration

	// MetricsAddress enables the Prometheus endpoint when set
	MetricsAddress string
	MetricsPath    string
	Registry       *prometheus.Registry
}

// DaemonServer serves the project service and, optionally, metrics
type DaemonServer struct {
	opts     ServerOptions
	logger   *slog.Logger
	grpc     *grpc.Server
	listener net.Listener

	metrics         *http.Server
	metricsListener net.Listener
}

// NewDaemonServer binds the listener and registers svc
func NewDaemonServer(svc ProjectServiceServer, logger *slog.Logger, opts ServerOptions) (*DaemonServer, error) {
	listener, err := listen(opts.Address)
	if err != nil {
		return nil, err
	}

	interceptors := []grpc.UnaryServerInterceptor{LoggingInterceptor(logger)}
	if opts.RateLimit > 0 {
		interceptors = append(interceptors, RateLimitInterceptor(rate.NewLimiter(opts.RateLimit, opts.Burst)))
	}
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	RegisterProjectServiceServer(server, svc)

	s := &DaemonServer{
		opts:     opts,
		logger:   logger,
		grpc:     server,
		listener: listener,
	}
	if opts.MetricsAddress != "" && opts.Registry != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux := http.NewServeMux()
		mux.Handle(path, promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
		metricsListener, err := net.Listen("tcp", opts.MetricsAddress)
		if err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to listen for metrics on %s: %w", opts.MetricsAddress, err)
		}
		s.metrics = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		s.metricsListener = metricsListener
	}
	return s, nil
}

func listen(address string) (net.Listener, error) {
	if path, ok := strings.CutPrefix(address, "unix:"); ok {
		if err := os.RemoveAll(path); err != nil {
			return nil, fmt.Errorf("failed to remove existing socket: %w", err)
		}
		listener, err := net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
		}
		if err := os.Chmod(path, 0600); err != nil {
			listener.Close()
			return nil, fmt.Errorf("failed to set socket permissions: %w", err)
		}
		return listener, nil
	}
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return listener, nil
}

// Addr returns the bound address
func (s *DaemonServer) Addr() net.Addr {
	return s.listener.Addr()
}

// MetricsAddr returns the bound metrics address, or "" when metrics are off
func (s *DaemonServer) MetricsAddr() string {
	if s.metricsListener == nil {
		return ""
	}
	return s.metricsListener.Addr().String()
}

// Serve blocks until ctx is cancelled or the server fails, then stops
// gracefully within ShutdownTimeout
func (s *DaemonServer) Serve(ctx context.Context) error {
	errChan := make(chan error, 2)
	go func() {
		s.logger.Info("daemon listening", "address", s.listener.Addr().String())
		if err := s.grpc.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	if s.metrics != nil {
		go func() {
			s.logger.Info("metrics listening", "address", s.MetricsAddr())
			if err := s.metrics.Serve(s.metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	var serveErr error
	select {
	case serveErr = <-errChan:
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
	}
	s.shutdown()
	return serveErr
}

func (s *DaemonServer) shutdown() {
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(timeout):
		s.logger.Warn("graceful stop timed out, forcing", "timeout", timeout)
		s.grpc.Stop()
	}

	if s.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.metrics.Shutdown(ctx); err != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
}
