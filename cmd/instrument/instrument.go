// Package instrument holds the sub-commands that apply and remove
// manifest instrumentation.
package instrument

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	globalConfig "github.com/tracewire/tracewire/internal/config"
	"github.com/tracewire/tracewire/internal/logging"
	"github.com/tracewire/tracewire/internal/services"
	"github.com/tracewire/tracewire/internal/ui"
)

// loadRun builds the logger and the pipeline wiring for one command
// execution using the global flag values.
func loadRun() (*services.Run, *logging.ZapLogger, error) {
	logger, err := logging.New(globalConfig.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	service := services.NewPipelineService(logger)
	run, err := service.Load(globalConfig.ConfigPath, globalConfig.ManifestPath)
	if err != nil {
		return nil, nil, err
	}
	return run, logger, nil
}

// plainOutput reports whether decorative output should be suppressed.
func plainOutput(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool("plain")
	return plain || ui.IsCI()
}

// saveManifest writes the manifest in the requested format and returns
// the path written. Yaml goes back to the source file when no output
// path is given; toml gets its own default file name.
func saveManifest(run *services.Run, outPath, format string) (string, error) {
	switch format {
	case "", "yaml", "yml":
		if outPath == "" {
			outPath = run.SourcePath()
		}
		return outPath, run.Save(outPath)
	case "toml":
		if outPath == "" {
			outPath = "tracewire.toml"
		}
		data, err := run.Manifest.MarshalToml()
		if err != nil {
			return "", fmt.Errorf("failed to marshal manifest: %w", err)
		}
		return outPath, os.WriteFile(outPath, data, 0644)
	default:
		return "", fmt.Errorf("unsupported output format %q, expected yaml or toml", format)
	}
}
