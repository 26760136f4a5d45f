package cli

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	orbitgrpc "github.com/andrescamacho/orbit-go/internal/adapters/grpc"
	"github.com/andrescamacho/orbit-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the orbit daemon",
		Long: `Serve orbit.v1.ProjectService over gRPC until interrupted.

The daemon stores persisted runs in the configured database, limits
concurrent simulations to daemon.max_concurrent_runs and exposes
Prometheus metrics when metrics.enabled is set.

Examples:
  orbit serve
  orbit serve --address unix:/tmp/orbit.sock
  ORBIT_METRICS_ENABLED=true orbit serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			daemon := a.cfg.Daemon
			if address != "" {
				daemon.Address = address
			}

			pf := pidfile.New(daemon.PIDFile)
			if err := pf.Acquire(); err != nil {
				return fmt.Errorf("failed to acquire PID file lock: %w", err)
			}
			defer func() {
				if err := pf.Release(); err != nil {
					a.logger.Warn("failed to release PID file", "error", err)
				}
			}()

			opts := orbitgrpc.ServerOptions{
				Address:         daemon.Address,
				RateLimit:       rate.Limit(daemon.RateLimit.Requests),
				Burst:           daemon.RateLimit.Burst,
				ShutdownTimeout: daemon.ShutdownTimeout,
			}
			if a.registry != nil {
				opts.Registry = a.registry
				opts.MetricsAddress = net.JoinHostPort(a.cfg.Metrics.Host, strconv.Itoa(a.cfg.Metrics.Port))
				opts.MetricsPath = a.cfg.Metrics.Path
			}

			svc := orbitgrpc.NewProjectService(a.mediator, a.weather, daemon.MaxConcurrentRuns)
			server, err := orbitgrpc.NewDaemonServer(svc, a.logger, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(a.context(context.Background()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (default daemon.address)")
	return cmd
}
