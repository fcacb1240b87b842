package instrument

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracewire/tracewire/internal/services"
	"github.com/tracewire/tracewire/internal/ui"
	"github.com/tracewire/tracewire/internal/ui/operations"
	"github.com/tracewire/tracewire/pkg/instrument"
	"github.com/tracewire/tracewire/pkg/instrument/lifecycle"
)

var (
	generateOutPath string
	generateFormat  string
)

func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Apply the instrumentation pipeline to the manifest",
		Long: `Apply the full instrumentation pipeline and write the mutated manifest.

The command runs both pipeline phases in order:

1. Before packaging: attach instrumentation layers and inject tracing
   configuration into every supported function
2. After packaging: subscribe function log groups to the forwarder,
   ensure service and environment tags, and redirect handlers through
   the instrumentation wrapper

Functions with unsupported runtimes are left untouched and reported as
diagnostics. Forwarder subscription failures do not abort the run; the
remaining mutations still apply and the failures are reported at the
end.`,
		Example: `  # Instrument the manifest discovered in the current directory
  tracewire instrument generate

  # Instrument a specific manifest and write the result elsewhere
  tracewire -f serverless.yml instrument generate -o serverless.instrumented.yml

  # Emit the mutated manifest as toml
  tracewire instrument generate --format toml`,
		RunE:          runGenerate,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Flags().StringVarP(&generateOutPath, "out", "o", "", "Output path for the mutated manifest (defaults to the source file)")
	cmd.Flags().StringVar(&generateFormat, "format", "yaml", "Output format: yaml or toml")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	run, logger, err := loadRun()
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	plain := plainOutput(cmd)

	if err := run.Dispatch(ctx, lifecycle.EventGenerateInit); err != nil {
		ui.PrintError(err.Error())
		return err
	}

	// The write phase talks to the logs endpoint, so it runs behind a
	// spinner in interactive sessions.
	if plain {
		err = run.Dispatch(ctx, lifecycle.EventGenerateWrite)
	} else {
		err = operations.WithSpinner("Instrumenting functions...", func() (interface{}, error) {
			return nil, run.Dispatch(ctx, lifecycle.EventGenerateWrite)
		}, nil)
	}
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	pipeline, err := run.Pipeline()
	if err != nil {
		return err
	}

	path, err := saveManifest(run, generateOutPath, generateFormat)
	if err != nil {
		ui.PrintError(err.Error())
		return err
	}

	reportGenerate(run, pipeline, path, plain)
	return nil
}

func reportGenerate(run *services.Run, pipeline *instrument.Pipeline, path string, plain bool) {
	diags := pipeline.Diagnostics()
	result := pipeline.ForwarderResult()

	if plain {
		for _, d := range diags {
			fmt.Printf("%s [%s]: %s\n", d.Function, d.Pass, d.Message)
		}
		fmt.Printf("instrumented %d functions, wrote %s\n", len(run.Manifest.Functions), path)
		return
	}

	for _, d := range diags {
		ui.PrintDiagnostic(d.Function, d.Message)
	}
	if result != nil {
		for _, f := range result.Failures {
			ui.PrintWarning(fmt.Sprintf("forwarder subscription failed for %s: %v", f.Function, f.Err))
		}
	}

	ui.PrintSuccess("Manifest instrumented")
	fmt.Println()
	ui.PrintInfo("Service", run.Manifest.Service)
	ui.PrintInfo("Functions", fmt.Sprintf("%d", len(run.Manifest.Functions)))
	if result != nil {
		ui.PrintInfo("Forwarder subscriptions", fmt.Sprintf("%d", len(result.Subscribed)))
	}
	ui.PrintInfo("Manifest", path)
}
