package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "orbit.db"
	}
	if cfg.Database.Postgres.Host == "" {
		cfg.Database.Postgres.Host = "localhost"
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.User == "" {
		cfg.Database.Postgres.User = "orbit"
	}
	if cfg.Database.Postgres.Name == "" {
		cfg.Database.Postgres.Name = "orbit"
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.Address == "" {
		cfg.Daemon.Address = "localhost:50061"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/orbit-daemon.pid"
	}
	if cfg.Daemon.MaxConcurrentRuns == 0 {
		cfg.Daemon.MaxConcurrentRuns = 4
	}
	if cfg.Daemon.RateLimit.Requests == 0 {
		cfg.Daemon.RateLimit.Requests = 5
	}
	if cfg.Daemon.RateLimit.Burst == 0 {
		cfg.Daemon.RateLimit.Burst = 10
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Simulation defaults
	if cfg.Simulation.MaxHours == 0 {
		cfg.Simulation.MaxHours = 87600
	}
	if cfg.Simulation.OutputMergePolicy == "" {
		cfg.Simulation.OutputMergePolicy = "first_producer_wins"
	}
	if cfg.Simulation.WeatherAlpha == 0 {
		cfg.Simulation.WeatherAlpha = 0.1
	}
	if cfg.Simulation.SweepConcurrency == 0 {
		cfg.Simulation.SweepConcurrency = 4
	}
}
