// Package logging builds the process logger from LoggingConfig.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andrescamacho/orbit-go/internal/infrastructure/config"
)

// NewLogger returns a slog logger and a close function for the output.
// The close function is a no-op for stdout and stderr.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	var (
		out     io.Writer
		closeFn = func() error { return nil }
	)
	switch cfg.Output {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	default:
		return nil, nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}

	logger, err := newLogger(cfg, out)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}

func newLogger(cfg config.LoggingConfig, out io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.IncludeCaller}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
}

// ParseLevel maps a config level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level: %s", name)
}
