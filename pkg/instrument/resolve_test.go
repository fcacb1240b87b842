package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracewire/tracewire/pkg/instrument/config"
	domainerrors "github.com/tracewire/tracewire/pkg/instrument/errors"
	"github.com/tracewire/tracewire/pkg/manifest"
	"github.com/tracewire/tracewire/pkg/tracing"
)

func boolPtr(b bool) *bool { return &b }

func baseManifest() *manifest.ServiceManifest {
	return &manifest.ServiceManifest{
		Service: "checkout",
		Provider: manifest.Provider{
			Region: "us-east-1",
			Stage:  "staging",
		},
		Functions: map[string]*manifest.Function{},
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(config.DefaultSettings(), baseManifest())
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.Service)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "staging", cfg.Stage)
	assert.True(t, cfg.AddLayers)
	assert.True(t, cfg.EnableTracing)
	assert.False(t, cfg.EnableXray)
	assert.False(t, cfg.EnableTags)
	assert.Empty(t, cfg.ForwarderARN)
	assert.Equal(t, tracing.ModeVendor, cfg.TracingMode())
}

func TestResolveManifestOverridesSettings(t *testing.T) {
	m := baseManifest()
	m.Custom.Instrument = &manifest.InstrumentSettings{
		AddLayers:    boolPtr(false),
		EnableXray:   boolPtr(true),
		EnableTags:   boolPtr(true),
		ForwarderARN: "arn:forwarder",
		ModuleType:   "typescript",
	}

	cfg, err := Resolve(config.DefaultSettings(), m)
	require.NoError(t, err)

	assert.False(t, cfg.AddLayers)
	assert.True(t, cfg.EnableXray)
	assert.True(t, cfg.EnableTags)
	// Untouched settings keep their defaults
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, "arn:forwarder", cfg.ForwarderARN)
	assert.Equal(t, "typescript", cfg.ModuleType)
	assert.Equal(t, tracing.ModeHybrid, cfg.TracingMode())
}

func TestResolveStageDefault(t *testing.T) {
	m := baseManifest()
	m.Provider.Stage = ""
	cfg, err := Resolve(config.DefaultSettings(), m)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Stage)
}

func TestResolveContractViolations(t *testing.T) {
	m := baseManifest()
	m.Service = ""
	_, err := Resolve(config.DefaultSettings(), m)
	assert.True(t, domainerrors.Is(err, domainerrors.DomainConfig, domainerrors.CodeMissingService))

	m = baseManifest()
	m.Provider.Region = ""
	_, err = Resolve(config.DefaultSettings(), m)
	assert.True(t, domainerrors.Is(err, domainerrors.DomainConfig, domainerrors.CodeMissingRegion))
}

func TestForFunctionOverrides(t *testing.T) {
	cfg, err := Resolve(config.DefaultSettings(), baseManifest())
	require.NoError(t, err)

	fn := &manifest.Function{
		Handler: "src/api.handler",
		Instrument: &manifest.Overrides{
			AddLayers:  boolPtr(false),
			EnableXray: boolPtr(true),
		},
	}

	fcfg := cfg.ForFunction(fn)
	assert.False(t, fcfg.AddLayers)
	assert.True(t, fcfg.EnableXray)
	assert.True(t, fcfg.EnableTracing)
	assert.Equal(t, tracing.ModeHybrid, fcfg.TracingMode())

	// The service-wide snapshot is untouched
	assert.True(t, cfg.AddLayers)
	assert.False(t, cfg.EnableXray)
}

func TestForFunctionNoOverrides(t *testing.T) {
	cfg, err := Resolve(config.DefaultSettings(), baseManifest())
	require.NoError(t, err)

	fcfg := cfg.ForFunction(&manifest.Function{Handler: "src/api.handler"})
	assert.Equal(t, *cfg, fcfg)
}

func TestTracingModeTruthTable(t *testing.T) {
	tests := []struct {
		vendor bool
		xray   bool
		want   tracing.Mode
	}{
		{false, false, tracing.ModeNone},
		{true, false, tracing.ModeVendor},
		{false, true, tracing.ModeXray},
		{true, true, tracing.ModeHybrid},
	}
	for _, tt := range tests {
		cfg := &ResolvedConfig{EnableTracing: tt.vendor, EnableXray: tt.xray}
		assert.Equal(t, tt.want, cfg.TracingMode())
	}
}
