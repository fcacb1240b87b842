package bundler

import "github.com/tracewire/tracewire/pkg/manifest"

// InstrumentPackage is the runtime dependency the layers provide. A
// bundler configured for the service must treat it as external or it
// would bundle a second, conflicting copy.
const InstrumentPackage = "tracewire-lambda"

// Hook detects a bundler configured in the service manifest and forces
// the instrumentation dependency out of the bundle.
type Hook struct{}

// NewHook returns the bundler-exclusion hook.
func NewHook() *Hook {
	return &Hook{}
}

// Detected reports whether the manifest configures a bundler.
func (h *Hook) Detected(m *manifest.ServiceManifest) bool {
	return m.Custom.Esbuild != nil
}

// ApplyExclusions marks the instrumentation package as external in the
// bundler configuration. Returns true when the manifest was changed;
// repeated application is a no-op.
func (h *Hook) ApplyExclusions(m *manifest.ServiceManifest) bool {
	if !h.Detected(m) {
		return false
	}
	for _, ext := range m.Custom.Esbuild.External {
		if ext == InstrumentPackage {
			return false
		}
	}
	m.Custom.Esbuild.External = append(m.Custom.Esbuild.External, InstrumentPackage)
	return true
}

// RemoveExclusions undoes ApplyExclusions. Returns true when the
// manifest was changed.
func (h *Hook) RemoveExclusions(m *manifest.ServiceManifest) bool {
	if !h.Detected(m) {
		return false
	}
	ext := m.Custom.Esbuild.External
	for i, e := range ext {
		if e == InstrumentPackage {
			m.Custom.Esbuild.External = append(ext[:i], ext[i+1:]...)
			return true
		}
	}
	return false
}
