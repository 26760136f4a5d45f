package config

import "time"

// DaemonConfig holds the gRPC project service configuration
type DaemonConfig struct {
	// Address is host:port or unix:<socket path>
	Address string `mapstructure:"address" validate:"required,listen_address"`

	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Maximum number of projects simulated at once
	MaxConcurrentRuns int `mapstructure:"max_concurrent_runs" validate:"min=1"`

	// Request rate limit across all clients
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// RateLimitConfig holds token bucket settings
type RateLimitConfig struct {
	// Requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`
	Burst    int     `mapstructure:"burst" validate:"min=1"`
}
