package instrument

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracewire/tracewire/internal/ui"
)

var (
	cleanOutPath string
	cleanFormat  string
)

func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Strip instrumentation from the manifest",
		Long: `Remove every mutation a previous generate run introduced.

Instrumentation layers are detached, injected tracing environment
variables are removed, redirected handlers are restored from the
preserved original, injected tags are dropped when they still carry the
resolved values, bundler exclusions are reverted, and generated wrapper
files are deleted. Settings the manifest declared before instrumentation
are left untouched. Cleaning an uninstrumented manifest is a no-op.`,
		Example: `  # Clean the manifest discovered in the current directory
  tracewire instrument clean

  # Clean a specific manifest
  tracewire -f serverless.yml instrument clean`,
		RunE:          runClean,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVarP(&cleanOutPath, "out", "o", "", "Output path for the cleaned manifest (defaults to the source file)")
	cmd.Flags().StringVar(&cleanFormat, "format", "yaml", "Output format: yaml or toml")

	return cmd
}

func runClean(cmd *cobra.Command, _ []string) error {
	run, logger, err := loadRun()
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := run.Clean(); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	path, err := saveManifest(run, cleanOutPath, cleanFormat)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	if plainOutput(cmd) {
		fmt.Printf("cleaned %d functions, wrote %s\n", len(run.Manifest.Functions), path)
		return nil
	}

	ui.PrintSuccess("Manifest cleaned")
	fmt.Println()
	ui.PrintInfo("Service", run.Manifest.Service)
	ui.PrintInfo("Manifest", path)
	return nil
}
