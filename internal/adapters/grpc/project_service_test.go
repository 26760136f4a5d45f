package grpc_test

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	orbitgrpc "github.com/andrescamacho/orbit-go/internal/adapters/grpc"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/application/setup"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
	"github.com/andrescamacho/orbit-go/test/helpers"
)

type stubLoader struct {
	series *weather.Series
}

func (l stubLoader) Load(path string) (*weather.Series, error) {
	if path != "site.csv" {
		return nil, errors.New("no such weather file: " + path)
	}
	return l.series, nil
}

// startService serves the project service over an in-memory listener
func startService(t *testing.T, repo *helpers.MockRunRepository, interceptors ...grpc.UnaryServerInterceptor) *orbitgrpc.ProjectClient {
	t.Helper()

	settings := appProject.Settings{MaxHours: 10000, Clock: shared.NewMockClock(time.Time{})}
	var runs run.RunRepository
	if repo != nil {
		runs = repo
	}
	m, err := setup.NewHandlerRegistry(helpers.TestRegistry, runs, settings).CreateConfiguredMediator()
	require.NoError(t, err)

	series := helpers.NewWeather(2000).Waves(0, 100, 4).Build(t)
	svc := orbitgrpc.NewProjectService(m, stubLoader{series: series}, 2)

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	orbitgrpc.RegisterProjectServiceServer(server, svc)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return orbitgrpc.NewProjectClient(conn)
}

func dredgeConfig(t *testing.T, depth float64, extra map[string]interface{}) config.Value {
	t.Helper()
	raw := map[string]interface{}{
		"site":           map[string]interface{}{"depth": depth},
		"port":           map[string]interface{}{"monthly_rate": 0},
		"design_phases":  []interface{}{"TrenchSizing"},
		"install_phases": map[string]interface{}{"Dredging": 0},
	}
	for k, v := range extra {
		raw[k] = v
	}
	return helpers.MustConfig(t, raw)
}

func TestRunProject_ReturnsOutputs(t *testing.T) {
	client := startService(t, nil)

	reply, err := client.RunProject(context.Background(), "remote-dredge", dredgeConfig(t, 5, nil), "", false, true)
	require.NoError(t, err)

	assert.Equal(t, string(run.StatusCompleted), reply.Status)
	assert.NotEmpty(t, reply.RunID)
	assert.Equal(t, 50.0, reply.Outputs.FloatOr("installation_time", 0))
	assert.Equal(t, 50.0, reply.Outputs.FloatOr("design_results.dredge.hours", 0))

	actions, ok := reply.Outputs.Get("actions")
	require.True(t, ok)
	assert.NotEmpty(t, actions.Items())
}

func TestRunProject_PersistsThroughRepository(t *testing.T) {
	repo := helpers.NewMockRunRepository()
	client := startService(t, repo)

	reply, err := client.RunProject(context.Background(), "kept", dredgeConfig(t, 2, nil), "", true, false)
	require.NoError(t, err)

	runs, err := repo.List(context.Background(), run.ListFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, reply.RunID, runs[0].ID.String())
	_, hasActions := reply.Outputs.Get("actions")
	assert.False(t, hasActions)
}

func TestRunProject_LoadsWeatherOnDaemonHost(t *testing.T) {
	client := startService(t, nil)
	cfg := dredgeConfig(t, 5, map[string]interface{}{
		"dredge": map[string]interface{}{"max_waveheight": 2},
	})

	reply, err := client.RunProject(context.Background(), "stormy", cfg, "site.csv", false, false)
	require.NoError(t, err)
	assert.Equal(t, 150.0, reply.Outputs.FloatOr("installation_time", 0))

	_, err = client.RunProject(context.Background(), "stormy", cfg, "elsewhere.csv", false, false)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRunProject_MapsErrorsToCodes(t *testing.T) {
	client := startService(t, nil)

	missing := helpers.MustConfig(t, map[string]interface{}{
		"design_phases": []interface{}{"TrenchSizing"},
	})
	_, err := client.RunProject(context.Background(), "bad", missing, "", false, false)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	broken := dredgeConfig(t, 5, map[string]interface{}{
		"dredge": map[string]interface{}{"needs_crane": true},
	})
	_, err = client.RunProject(context.Background(), "broken", broken, "", false, false)
	assert.Equal(t, codes.Aborted, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "Dredging")
}

func TestCompileSchema(t *testing.T) {
	client := startService(t, nil)

	inputs, err := client.CompileSchema(context.Background(), []string{"TrenchSizing", "Dredging"})
	require.NoError(t, err)
	assert.True(t, inputs.Has("site.depth"))
	assert.False(t, inputs.Has("dredge.hours"))

	_, err = client.CompileSchema(context.Background(), []string{"Piling"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestValidateProject(t *testing.T) {
	client := startService(t, nil)

	valid, missing, msg, err := client.ValidateProject(context.Background(), dredgeConfig(t, 5, nil), "")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, missing)
	assert.Empty(t, msg)

	cfg := helpers.MustConfig(t, map[string]interface{}{
		"design_phases":  []interface{}{"TrenchSizing"},
		"install_phases": map[string]interface{}{"Dredging": 0},
	})
	valid, missing, _, err = client.ValidateProject(context.Background(), cfg, "")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, []string{"TrenchSizing: site.depth"}, missing)
}

func TestRateLimitInterceptor(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := startService(t, nil, orbitgrpc.RateLimitInterceptor(limiter))

	_, err := client.CompileSchema(context.Background(), []string{"Dredging"})
	require.NoError(t, err)

	_, err = client.CompileSchema(context.Background(), []string{"Dredging"})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestLoggingInterceptor_PassesErrorsThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&discard{}, nil))
	client := startService(t, nil, orbitgrpc.LoggingInterceptor(logger))

	_, err := client.CompileSchema(context.Background(), []string{"Piling"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
