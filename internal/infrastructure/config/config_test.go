package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orbit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "logging:\n  level: info\n"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "orbit.db", cfg.Database.Path)
	assert.Equal(t, 87600.0, cfg.Simulation.MaxHours)
	assert.Equal(t, "first_producer_wins", cfg.Simulation.OutputMergePolicy)
	assert.Equal(t, 0.1, cfg.Simulation.WeatherAlpha)
	assert.Equal(t, 4, cfg.Simulation.SweepConcurrency)
	assert.Equal(t, 30*time.Second, cfg.Daemon.ShutdownTimeout)
}

func TestLoadConfig_FileValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
simulation:
  max_hours: 1000
  continue_on_failure: true
  output_merge_policy: last_producer_wins
daemon:
  address: 0.0.0.0:6000
  max_concurrent_runs: 2
logging:
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.Simulation.MaxHours)
	assert.True(t, cfg.Simulation.ContinueOnFailure)
	assert.Equal(t, "last_producer_wins", cfg.Simulation.OutputMergePolicy)
	assert.Equal(t, "0.0.0.0:6000", cfg.Daemon.Address)
	assert.Equal(t, 2, cfg.Daemon.MaxConcurrentRuns)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("ORBIT_SIMULATION_MAX_HOURS", "500")
	t.Setenv("DATABASE_URL", "postgresql://orbit@localhost:5432/orbit")

	cfg, err := LoadConfig(writeConfig(t, "simulation:\n  max_hours: 1000\n"))
	require.NoError(t, err)

	assert.Equal(t, 500.0, cfg.Simulation.MaxHours)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "postgresql://orbit@localhost:5432/orbit", cfg.Database.URL)
}

func TestLoadConfig_RejectsUnknownMergePolicy(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "simulation:\n  output_merge_policy: newest\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation.output_merge_policy")
}

func TestValidateConfig_FileOutputNeedsPath(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Logging.Output = "file"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.file_path")
}

func TestValidateConfig_DaemonAddress(t *testing.T) {
	for addr, ok := range map[string]bool{
		"localhost:50061":        true,
		":50061":                 true,
		"unix:/tmp/orbit.sock":   true,
		"unix:":                  false,
		"localhost":              false,
		"orbit.example.com:grpc": true,
	} {
		cfg := &Config{}
		SetDefaults(cfg)
		cfg.Daemon.Address = addr

		err := ValidateConfig(cfg)
		if ok {
			assert.NoError(t, err, addr)
		} else {
			require.Error(t, err, addr)
			assert.Contains(t, err.Error(), "daemon.address", addr)
		}
	}
}

func TestDatabaseConfig_DSNAndMasking(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Postgres.Password = "secret"

	assert.Equal(t, "host=localhost port=5432 user=orbit password=secret dbname=orbit sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, "********", cfg.Database.Masked().Postgres.Password)
	assert.Equal(t, "secret", cfg.Database.Postgres.Password)

	cfg.Database.URL = "postgresql://orbit:secret@db/orbit"
	assert.Equal(t, "postgresql://orbit:secret@db/orbit", cfg.Database.DSN())
	assert.Equal(t, "********", cfg.Database.Masked().URL)
}
