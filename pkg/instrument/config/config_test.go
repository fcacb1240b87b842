package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.Instrument.AddLayers)
	assert.True(t, s.Instrument.EnableTracing)
	assert.False(t, s.Instrument.EnableXray)
	assert.False(t, s.Instrument.EnableTags)
	assert.Empty(t, s.Instrument.ForwarderARN)
	assert.Equal(t, 30*time.Second, s.Forwarder.Timeout)
	assert.Equal(t, ".tracewire", s.Wrapper.Dir)
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettingsFromFile(t *testing.T) {
	content := `
instrument:
  add_layers: false
  enable_xray: true
  forwarder_arn: arn:aws:lambda:us-east-1:123456789012:function:forwarder
forwarder:
  timeout: 5s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.False(t, s.Instrument.AddLayers)
	assert.True(t, s.Instrument.EnableXray)
	// Untouched keys keep their defaults
	assert.True(t, s.Instrument.EnableTracing)
	assert.Equal(t, "arn:aws:lambda:us-east-1:123456789012:function:forwarder", s.Instrument.ForwarderARN)
	assert.Equal(t, 5*time.Second, s.Forwarder.Timeout)
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv("TRACEWIRE_FORWARDER_TIMEOUT", "10s")
	t.Setenv("TRACEWIRE_WRAPPER_DIR", ".wrappers")

	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, s.Forwarder.Timeout)
	assert.Equal(t, ".wrappers", s.Wrapper.Dir)
}
