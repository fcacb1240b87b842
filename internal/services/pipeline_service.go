package services

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/tracewire/tracewire/internal/di"
	"github.com/tracewire/tracewire/pkg/instrument"
	"github.com/tracewire/tracewire/pkg/instrument/config"
	"github.com/tracewire/tracewire/pkg/instrument/lifecycle"
	"github.com/tracewire/tracewire/pkg/manifest"
)

// PipelineService assembles and drives one pipeline run for the CLI.
type PipelineService struct {
	logger instrument.Logger
}

// NewPipelineService creates the service with the given logger.
func NewPipelineService(logger instrument.Logger) *PipelineService {
	return &PipelineService{logger: logger}
}

// Run is one command execution over a loaded manifest.
type Run struct {
	Settings *config.Settings
	Manifest *manifest.ServiceManifest

	sourcePath string
	container  *dig.Container
}

// Load reads the settings and manifest and wires the pipeline
// container. manifestPath may be empty to use file discovery.
func (s *PipelineService) Load(configPath, manifestPath string) (*Run, error) {
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	manifestPath, err = manifest.Discover(manifestPath)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	container, err := di.BuildContainer(settings, m, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}

	return &Run{
		Settings:   settings,
		Manifest:   m,
		sourcePath: manifestPath,
		container:  container,
	}, nil
}

// Dispatch routes one lifecycle event into the pipeline.
func (r *Run) Dispatch(ctx context.Context, event lifecycle.Event) error {
	dispatcher, err := di.GetDispatcher(r.container)
	if err != nil {
		return err
	}
	return dispatcher.Dispatch(ctx, event)
}

// Pipeline returns the run's pipeline.
func (r *Run) Pipeline() (*instrument.Pipeline, error) {
	return di.GetPipeline(r.container)
}

// Clean reverses a previous run's mutations on the manifest.
func (r *Run) Clean() error {
	pipeline, err := di.GetPipeline(r.container)
	if err != nil {
		return err
	}
	return pipeline.Clean()
}

// SourcePath returns the file the manifest was loaded from.
func (r *Run) SourcePath() string {
	return r.sourcePath
}

// Save writes the mutated manifest. An empty path writes back to the
// file the manifest was loaded from, falling back to the first default
// file name.
func (r *Run) Save(path string) error {
	if path == "" {
		path = r.sourcePath
	}
	if path == "" {
		path = manifest.DefaultFiles[0]
	}
	return r.Manifest.Save(path)
}
