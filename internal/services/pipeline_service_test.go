package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewire/tracewire/pkg/instrument"
	"github.com/tracewire/tracewire/pkg/instrument/lifecycle"
	"github.com/tracewire/tracewire/pkg/manifest"
	"github.com/tracewire/tracewire/pkg/wrapper"
)

const testManifestYaml = `service: checkout
provider:
  name: aws
  region: us-east-1
  runtime: nodejs18.x
functions:
  api:
    handler: src/api.handler
`

func writeRunFixtures(t *testing.T) (configPath, manifestPath string) {
	t.Helper()
	dir := t.TempDir()

	configPath = filepath.Join(dir, "config.yaml")
	configYaml := "instrument:\n  enable_tags: true\nwrapper:\n  dir: " + filepath.Join(dir, ".tracewire") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configYaml), 0644))

	manifestPath = filepath.Join(dir, "tracewire.yml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(testManifestYaml), 0644))
	return configPath, manifestPath
}

func TestLoadWiresPipeline(t *testing.T) {
	configPath, manifestPath := writeRunFixtures(t)

	service := NewPipelineService(instrument.NopLogger{})
	run, err := service.Load(configPath, manifestPath)
	require.NoError(t, err)

	assert.Equal(t, "checkout", run.Manifest.Service)
	assert.Equal(t, manifestPath, run.SourcePath())
	assert.True(t, run.Settings.Instrument.AddLayers)

	pipeline, err := run.Pipeline()
	require.NoError(t, err)
	require.Len(t, pipeline.Functions(), 1)
}

func TestLoadMissingManifest(t *testing.T) {
	configPath, _ := writeRunFixtures(t)

	service := NewPipelineService(instrument.NopLogger{})
	_, err := service.Load(configPath, filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestDispatchAndSaveRoundTrip(t *testing.T) {
	configPath, manifestPath := writeRunFixtures(t)

	service := NewPipelineService(instrument.NopLogger{})
	run, err := service.Load(configPath, manifestPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, run.Dispatch(ctx, lifecycle.EventGenerateInit))
	require.NoError(t, run.Dispatch(ctx, lifecycle.EventGenerateWrite))
	require.NoError(t, run.Save(""))

	mutated, err := manifest.Load(manifestPath)
	require.NoError(t, err)

	fn := mutated.Functions["api"]
	require.NotNil(t, fn)
	assert.NotEmpty(t, fn.Layers)
	assert.Equal(t, "src/api.handler", fn.Environment[wrapper.EnvOriginalHandler])
	assert.NotEqual(t, "src/api.handler", fn.Handler)
	assert.Equal(t, "true", fn.Environment["TRACEWIRE_TRACE_ENABLED"])
	assert.Equal(t, "checkout", fn.Tags["service"])
}

func TestCleanRestoresManifest(t *testing.T) {
	configPath, manifestPath := writeRunFixtures(t)

	service := NewPipelineService(instrument.NopLogger{})
	run, err := service.Load(configPath, manifestPath)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, run.Dispatch(ctx, lifecycle.EventAfterPackage))
	require.NoError(t, run.Save(""))

	cleanRun, err := service.Load(configPath, manifestPath)
	require.NoError(t, err)
	require.NoError(t, cleanRun.Clean())
	require.NoError(t, cleanRun.Save(""))

	restored, err := manifest.Load(manifestPath)
	require.NoError(t, err)

	fn := restored.Functions["api"]
	require.NotNil(t, fn)
	assert.Equal(t, "src/api.handler", fn.Handler)
	assert.Empty(t, fn.Layers)
	assert.Empty(t, fn.Environment)
}
