package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	globalConfig "github.com/tracewire/tracewire/internal/config"
	"github.com/tracewire/tracewire/internal/logging"
	"github.com/tracewire/tracewire/internal/services"
	"github.com/tracewire/tracewire/internal/ui"
	"github.com/tracewire/tracewire/pkg/instrument/lifecycle"
)

var hookCmd = &cobra.Command{
	Use:   "hook <event>",
	Short: "Run the pipeline phase for one host lifecycle event",
	Long: `Run the pipeline phase a host deployment tool's lifecycle event maps to.

Host tools fire many differently named events; each one routes to one of
the two pipeline phases. An after-phase event arriving before the
before-phase has run triggers the before-phase first, so the mutation
order holds no matter which events the host fires. The mutated manifest
is written back to its source file.`,
	Example: `  # Run the before-package phase
  tracewire hook before:package

  # Run both phases in order
  tracewire hook after:package`,
	Args:          cobra.ExactArgs(1),
	RunE:          runHook,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func runHook(cmd *cobra.Command, args []string) error {
	event := lifecycle.Event(args[0])
	if _, ok := lifecycle.PhaseFor(event); !ok {
		ui.PrintError(fmt.Sprintf("unknown lifecycle event %q", args[0]))
		fmt.Println("Known events:")
		for _, e := range knownEvents() {
			fmt.Printf("  %s %s\n", ui.BulletSymbol, e)
		}
		return fmt.Errorf("unknown lifecycle event %q", args[0])
	}

	logger, err := logging.New(globalConfig.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	service := services.NewPipelineService(logger)
	run, err := service.Load(globalConfig.ConfigPath, globalConfig.ManifestPath)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	if err := run.Dispatch(cmd.Context(), event); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	if err := run.Save(""); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	logger.Printf("handled %s, wrote %s", event, run.SourcePath())
	return nil
}

func knownEvents() []string {
	events := lifecycle.Events()
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, string(e))
	}
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
