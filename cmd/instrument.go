package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tracewire/tracewire/cmd/instrument"
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "Manage manifest instrumentation",
	Long: `Commands for applying and removing instrumentation on a service manifest.

The generate command runs the full mutation pipeline (layers, tracing,
forwarder subscriptions, tags, handler redirection) and writes the mutated
manifest back to disk. The clean command strips every mutation a previous
run introduced, restoring the manifest to its uninstrumented form. Both
commands are idempotent and safe to re-run.`,
	Example: `  # Instrument the manifest in the current directory
  tracewire instrument generate

  # Write the instrumented manifest to a separate file
  tracewire instrument generate -o serverless.instrumented.yml

  # Remove a previous run's mutations
  tracewire instrument clean`,
}

func init() {
	instrumentCmd.AddCommand(instrument.NewGenerateCommand())
	instrumentCmd.AddCommand(instrument.NewCleanCommand())
	rootCmd.AddCommand(instrumentCmd)
}
