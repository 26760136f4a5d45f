package config

// LoggingConfig configures the slog logger built by infrastructure/logging
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// FilePath is where logs go when Output is "file"
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// IncludeCaller adds the source file and line to each record
	IncludeCaller bool `mapstructure:"include_caller"`
}

// MetricsConfig controls the Prometheus collectors and the HTTP endpoint
// that `orbit serve` exposes them on
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
