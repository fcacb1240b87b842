package instrument

import (
	"github.com/tracewire/tracewire/pkg/layers"
	"github.com/tracewire/tracewire/pkg/tracing"
	"github.com/tracewire/tracewire/pkg/wrapper"
)

// injectedEnvKeys are the environment variables the pipeline owns.
var injectedEnvKeys = []string{
	tracing.EnvTraceEnabled,
	tracing.EnvXrayEnabled,
	tracing.EnvMergeXrayTraces,
}

// Clean reverses the mutations a previous run applied to the manifest:
// tracewire layers are detached, injected environment variables
// removed, handlers restored from the recorded original, injected tags
// dropped when they still carry the injected values, and materialized
// wrapper shims deleted. User-supplied values are left alone.
func (p *Pipeline) Clean() error {
	for _, name := range p.manifest.FunctionNames() {
		fn := p.manifest.Functions[name]

		kept := fn.Layers[:0]
		for _, ref := range fn.Layers {
			if !layers.Owns(ref) {
				kept = append(kept, ref)
			}
		}
		fn.Layers = kept
		if len(fn.Layers) == 0 {
			fn.Layers = nil
		}

		if orig, ok := fn.Environment[wrapper.EnvOriginalHandler]; ok {
			fn.Handler = orig
			delete(fn.Environment, wrapper.EnvOriginalHandler)
		}
		for _, key := range injectedEnvKeys {
			delete(fn.Environment, key)
		}
		if len(fn.Environment) == 0 {
			fn.Environment = nil
		}

		if fn.Tags["service"] == p.cfg.Service {
			delete(fn.Tags, "service")
		}
		if fn.Tags["environment"] == p.cfg.Stage {
			delete(fn.Tags, "environment")
		}
		if len(fn.Tags) == 0 {
			fn.Tags = nil
		}
	}

	if p.cfg.TracingMode().XrayEnabled() && p.manifest.Provider.Tracing != nil {
		p.manifest.Provider.Tracing = nil
	}

	if p.bundler.RemoveExclusions(p.manifest) {
		p.logger.Debugf("removed instrumentation dependency from bundler externals")
	}

	return p.injector.Clean()
}
