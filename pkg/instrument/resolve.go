package instrument

import (
	"github.com/tracewire/tracewire/pkg/instrument/config"
	domainerrors "github.com/tracewire/tracewire/pkg/instrument/errors"
	"github.com/tracewire/tracewire/pkg/manifest"
	"github.com/tracewire/tracewire/pkg/tracing"
)

// ResolvedConfig is the flat configuration snapshot for one pipeline
// run. Resolution is total: every field holds a concrete value.
// Precedence is tool settings, then the manifest custom block, then
// per-function overrides (applied via ForFunction).
type ResolvedConfig struct {
	Service string
	Region  string
	Stage   string

	AddLayers     bool
	EnableTracing bool
	EnableXray    bool
	EnableTags    bool

	ForwarderARN string
	ModuleType   string
}

// Resolve merges tool settings with the manifest's service-wide
// instrumentation block. A manifest that cannot supply the required
// identity values is a contract violation and fails the run.
func Resolve(settings *config.Settings, m *manifest.ServiceManifest) (*ResolvedConfig, error) {
	if m.Service == "" {
		return nil, domainerrors.ErrMissingService
	}
	if m.Provider.Region == "" {
		return nil, domainerrors.ErrMissingRegion
	}

	cfg := &ResolvedConfig{
		Service:       m.Service,
		Region:        m.Provider.Region,
		Stage:         m.Stage(),
		AddLayers:     settings.Instrument.AddLayers,
		EnableTracing: settings.Instrument.EnableTracing,
		EnableXray:    settings.Instrument.EnableXray,
		EnableTags:    settings.Instrument.EnableTags,
		ForwarderARN:  settings.Instrument.ForwarderARN,
		ModuleType:    settings.Instrument.ModuleType,
	}

	if s := m.Custom.Instrument; s != nil {
		if s.AddLayers != nil {
			cfg.AddLayers = *s.AddLayers
		}
		if s.EnableTracing != nil {
			cfg.EnableTracing = *s.EnableTracing
		}
		if s.EnableXray != nil {
			cfg.EnableXray = *s.EnableXray
		}
		if s.EnableTags != nil {
			cfg.EnableTags = *s.EnableTags
		}
		if s.ForwarderARN != "" {
			cfg.ForwarderARN = s.ForwarderARN
		}
		if s.ModuleType != "" {
			cfg.ModuleType = s.ModuleType
		}
	}

	return cfg, nil
}

// ForFunction overlays a function's explicit overrides on the
// service-wide snapshot. The receiver is not modified.
func (c *ResolvedConfig) ForFunction(fn *manifest.Function) ResolvedConfig {
	out := *c
	if o := fn.Instrument; o != nil {
		if o.AddLayers != nil {
			out.AddLayers = *o.AddLayers
		}
		if o.EnableTracing != nil {
			out.EnableTracing = *o.EnableTracing
		}
		if o.EnableXray != nil {
			out.EnableXray = *o.EnableXray
		}
	}
	return out
}

// TracingMode derives the active tracing backends from the two
// resolved flags.
func (c *ResolvedConfig) TracingMode() tracing.Mode {
	return tracing.ModeFor(c.EnableTracing, c.EnableXray)
}
