package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/andrescamacho/orbit-go/internal/adapters/metrics"
	"github.com/andrescamacho/orbit-go/internal/adapters/persistence"
	"github.com/andrescamacho/orbit-go/internal/adapters/projectfile"
	appLogging "github.com/andrescamacho/orbit-go/internal/application/logging"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/application/setup"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/catalog"
	domainProject "github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
	"github.com/andrescamacho/orbit-go/internal/infrastructure/config"
	"github.com/andrescamacho/orbit-go/internal/infrastructure/database"
	"github.com/andrescamacho/orbit-go/internal/infrastructure/logging"
)

// app is the wired process: settings, logger, optional database and the
// configured mediator
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	mediator mediator.Mediator
	weather  *projectfile.WeatherCache
	registry *prometheus.Registry

	db       *gorm.DB
	closeLog func() error
}

// newApp loads the config and wires the mediator. The database is opened
// only when withRuns is set.
func newApp(withRuns bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if continueOnFailure {
		cfg.Simulation.ContinueOnFailure = true
	}

	logger, closeLog, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closeLog: closeLog}

	library, err := defaults.Builtin()
	if err != nil {
		a.close()
		return nil, err
	}
	policy, err := domainProject.ParseMergePolicy(cfg.Simulation.OutputMergePolicy)
	if err != nil {
		a.close()
		return nil, err
	}
	settings := appProject.Settings{
		Library:           library,
		MaxHours:          cfg.Simulation.MaxHours,
		ContinueOnFailure: cfg.Simulation.ContinueOnFailure,
		MergePolicy:       policy,
	}

	var requests *metrics.RequestMetricsCollector
	if cfg.Metrics.Enabled {
		a.registry = metrics.InitRegistry()
		sim := metrics.NewSimulationMetricsCollector()
		requests = metrics.NewRequestMetricsCollector()
		if err := sim.Register(a.registry); err != nil {
			a.close()
			return nil, err
		}
		if err := requests.Register(a.registry); err != nil {
			a.close()
			return nil, err
		}
		settings.Metrics = sim
	}

	var runs run.RunRepository
	if withRuns {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = db
		runs = persistence.NewGormRunRepository(db)
	}

	m, err := setup.NewHandlerRegistry(catalog.NewRegistry, runs, settings).CreateConfiguredMediator()
	if err != nil {
		a.close()
		return nil, err
	}
	m.Use(metrics.PrometheusMiddleware(requests))
	a.mediator = m
	a.weather = projectfile.NewWeatherCache(weather.WithAlpha(cfg.Simulation.WeatherAlpha))

	logger.Debug("orbit wired", "database", withRuns, "metrics", cfg.Metrics.Enabled)
	return a, nil
}

// context returns a context carrying the app logger
func (a *app) context(parent context.Context) context.Context {
	return appLogging.WithLogger(parent, a.logger)
}

// loadWeather returns nil for an empty path
func (a *app) loadWeather(path string) (*weather.Series, error) {
	if path == "" {
		return nil, nil
	}
	return a.weather.Load(path)
}

func (a *app) close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}
