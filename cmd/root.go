package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	globalConfig "github.com/tracewire/tracewire/internal/config"
	"github.com/tracewire/tracewire/internal/ui"
	"github.com/tracewire/tracewire/pkg/instrument/config"
)

var rootCmd = &cobra.Command{
	Use:   "tracewire",
	Short: "Tracewire serverless instrumentation CLI",
	Long: `Tracewire instruments serverless function definitions at deploy time.

It reads a declarative service manifest, classifies each function's runtime,
resolves the instrumentation configuration, and applies an ordered set of
idempotent mutations before and after packaging:
* Attach runtime-appropriate instrumentation layers
* Inject distributed-tracing configuration
* Subscribe function logs to a forwarder
* Ensure service and environment tags
* Redirect handlers through the instrumentation wrapper`,
	Example: `  # Apply the full pipeline and write the mutated manifest back
  tracewire instrument generate

  # Strip a previous run's mutations
  tracewire instrument clean

  # Let a host deployment tool drive individual lifecycle events
  tracewire hook before:package

  # Use a custom settings file and manifest
  tracewire --config ~/.tracewire/custom.yaml -f serverless.yml instrument generate`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return
		}

		// Check if any command in the hierarchy has a plain flag set to true
		plainFlag := false
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if f.Name == "plain" && f.Value.String() == "true" {
				plainFlag = true
			}
		})

		if !plainFlag && !ui.IsCI() {
			ui.PrintLogo()
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&globalConfig.ConfigPath, "config", "c", config.DefaultConfigPath, "Path to the settings file")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.ManifestPath, "manifest", "f", "", "Path to the service manifest (auto-discovered if empty)")
	rootCmd.PersistentFlags().StringVar(&globalConfig.LogLevel, "log-level", "info", "Log level (debug, info, error)")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable decorative output")
}
