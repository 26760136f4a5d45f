package cli

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	infraConfig "github.com/andrescamacho/orbit-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect application settings",
		Long: `Inspect orbit application settings.

Settings are loaded from multiple sources with priority:
1. Environment variables (ORBIT_* prefix, DATABASE_URL)
2. Config file (orbit.yaml)
3. Default values

Example:
  orbit config show`,
	}

	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := infraConfig.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg.Database = cfg.Database.Masked()

			var raw map[string]interface{}
			if err := mapstructure.Decode(cfg, &raw); err != nil {
				return fmt.Errorf("failed to encode settings: %w", err)
			}
			v, err := config.FromAny(plainSettings(raw))
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), v)
		},
	}
}

// plainSettings renders durations as strings so the tree holds only
// config value types
func plainSettings(x interface{}) interface{} {
	switch t := x.(type) {
	case map[string]interface{}:
		for k, v := range t {
			t[k] = plainSettings(v)
		}
		return t
	case time.Duration:
		return t.String()
	}
	return x
}
