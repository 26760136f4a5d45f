package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	daemonAddr   string
	outputFormat string
	verbose      bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orbit",
		Short: "Offshore wind balance-of-system cost model",
		Long: `orbit designs and simulates the installation of offshore wind projects
and reports their balance-of-system costs.

Projects are YAML documents naming design_phases and install_phases.
An optional top-level weather key points at an hourly CSV profile.

Examples:
  orbit phases
  orbit schema MonopileDesign MonopileInstallation
  orbit validate project.yaml
  orbit run project.yaml --persist
  orbit sweep sweep.yaml
  orbit runs list --status COMPLETED
  orbit serve`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to orbit.yaml (default: ./configs, /etc/orbit)")
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "daemon", os.Getenv("ORBIT_DAEMON"),
		"Run remotely on the daemon at this address (host:port or unix:<path>)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml",
		"Output format: yaml, json or table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewPhasesCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewSweepCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
