package instrument

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tracewire/tracewire/pkg/forwarder"
	"github.com/tracewire/tracewire/pkg/manifest"
	"github.com/tracewire/tracewire/pkg/runtimes"
	"github.com/tracewire/tracewire/pkg/tracing"
	"github.com/tracewire/tracewire/pkg/wrapper"
)

// LayerResolver resolves instrumentation layer references by region and
// runtime.
type LayerResolver interface {
	Resolve(region string, rt runtimes.Type) []string
}

// HandlerInjector computes wrapper entry points and materializes
// wrapper code into the artifact when no layer provides it.
type HandlerInjector interface {
	WrapperHandler(rt runtimes.Runtime, layersPresent bool) (string, bool)
	EnsureWrapper(rt runtimes.Runtime) error
	Clean() error
}

// BundlerHook forces the instrumentation dependency out of a configured
// bundler's output.
type BundlerHook interface {
	ApplyExclusions(m *manifest.ServiceManifest) bool
	RemoveExclusions(m *manifest.ServiceManifest) bool
}

// Diagnostic is a non-fatal per-function condition recorded by a pass.
type Diagnostic struct {
	Function string
	Pass     string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pass, d.Function, d.Message)
}

// FunctionInfo is the read-only projection of one function produced by
// classification at the start of a run.
type FunctionInfo struct {
	Name            string
	Runtime         runtimes.Runtime
	Handler         string
	OriginalHandler string
}

// Pipeline applies the ordered, idempotent mutation passes to a service
// manifest. It owns no entities: it borrows the manifest's function
// definitions and mutates them in place.
type Pipeline struct {
	manifest *manifest.ServiceManifest
	cfg      *ResolvedConfig

	layers   LayerResolver
	injector HandlerInjector
	binder   forwarder.Binder
	bundler  BundlerHook
	logger   Logger

	diags     []Diagnostic
	fwdResult *forwarder.Result
}

// NewPipeline creates a pipeline over the manifest with all
// collaborators supplied.
func NewPipeline(
	m *manifest.ServiceManifest,
	cfg *ResolvedConfig,
	layers LayerResolver,
	injector HandlerInjector,
	binder forwarder.Binder,
	bundlerHook BundlerHook,
	logger Logger,
) *Pipeline {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Pipeline{
		manifest: m,
		cfg:      cfg,
		layers:   layers,
		injector: injector,
		binder:   binder,
		bundler:  bundlerHook,
		logger:   logger,
	}
}

// Functions classifies every function definition and returns the
// projections in deterministic order.
func (p *Pipeline) Functions() []FunctionInfo {
	infos := make([]FunctionInfo, 0, len(p.manifest.Functions))
	for _, name := range p.manifest.FunctionNames() {
		fn := p.manifest.Functions[name]
		rt := runtimes.Classify(p.manifest.RuntimeFor(fn), p.cfg.ModuleType)

		original := fn.Handler
		if prev, ok := fn.Environment[wrapper.EnvOriginalHandler]; ok {
			original = prev
		}

		infos = append(infos, FunctionInfo{
			Name:            name,
			Runtime:         rt,
			Handler:         fn.Handler,
			OriginalHandler: original,
		})
	}
	return infos
}

// Diagnostics returns the non-fatal conditions collected so far.
func (p *Pipeline) Diagnostics() []Diagnostic {
	return p.diags
}

// ForwarderResult returns the outcome of the forwarder-subscription
// pass, or nil when the pass has not run.
func (p *Pipeline) ForwarderResult() *forwarder.Result {
	return p.fwdResult
}

// BeforePackage runs the pre-packaging passes in their fixed order:
// layer attachment, then tracing injection.
func (p *Pipeline) BeforePackage(ctx context.Context) error {
	p.attachLayers()
	p.injectTracing()
	return ctx.Err()
}

// AfterPackage runs the post-packaging passes in their fixed order:
// forwarder subscription, tag injection, handler redirection.
func (p *Pipeline) AfterPackage(ctx context.Context) error {
	p.subscribeForwarder(ctx)
	p.injectTags()
	p.redirectHandlers()
	return ctx.Err()
}

// attachLayers attaches the region/runtime-appropriate layer references
// to every supported function. Unsupported functions are skipped with a
// diagnostic. The whole pass is a no-op when layers are disabled.
func (p *Pipeline) attachLayers() {
	if !p.cfg.AddLayers {
		p.logger.Debugf("layer attachment disabled, skipping")
		return
	}

	for _, info := range p.Functions() {
		fn := p.manifest.Functions[info.Name]
		fcfg := p.cfg.ForFunction(fn)
		if !fcfg.AddLayers {
			continue
		}

		if !info.Runtime.Supported() {
			p.diag("layers", info.Name, fmt.Sprintf("unsupported runtime %q, no layer attached", info.Runtime.Raw))
			continue
		}

		refs := p.layers.Resolve(p.cfg.Region, info.Runtime.Type)
		if len(refs) == 0 {
			p.diag("layers", info.Name, fmt.Sprintf("no layer published for runtime %q in %s", info.Runtime.Raw, p.cfg.Region))
			continue
		}
		for _, ref := range refs {
			if appendIfAbsent(&fn.Layers, ref) {
				p.logger.Debugf("attached layer %s to %s", ref, info.Name)
			}
		}
	}

	if p.bundler.ApplyExclusions(p.manifest) {
		p.logger.Printf("bundler detected, excluded instrumentation dependency from bundle")
	}
}

// injectTracing computes the tracing mode per function and injects the
// corresponding environment variables, plus the provider-level X-Ray
// setting when any mode requires it. Values are assigned, not
// appended, so re-running yields the same state.
func (p *Pipeline) injectTracing() {
	xrayNeeded := p.cfg.TracingMode().XrayEnabled()

	for _, info := range p.Functions() {
		fn := p.manifest.Functions[info.Name]
		fcfg := p.cfg.ForFunction(fn)
		mode := fcfg.TracingMode()
		if mode.XrayEnabled() {
			xrayNeeded = true
		}

		if fn.Environment == nil {
			fn.Environment = make(map[string]string)
		}
		for k, v := range tracing.Env(mode) {
			fn.Environment[k] = v
		}
		p.logger.Debugf("tracing mode for %s: %s", info.Name, mode)
	}

	if xrayNeeded {
		p.manifest.Provider.Tracing = &manifest.ProviderTracing{Lambda: true}
	}
}

// subscribeForwarder wires each function's log group to the configured
// forwarder target. Subscriptions are dispatched concurrently, awaited,
// and individual failures are collected rather than aborting the pass.
func (p *Pipeline) subscribeForwarder(ctx context.Context) {
	if p.cfg.ForwarderARN == "" {
		return
	}

	infos := p.Functions()
	res := &forwarder.Result{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, info := range infos {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			logGroup := p.logGroupFor(name)
			err := p.binder.Subscribe(ctx, logGroup, p.cfg.ForwarderARN)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, forwarder.Failure{
					Function: name,
					LogGroup: logGroup,
					Err:      err,
				})
				return
			}
			res.Subscribed = append(res.Subscribed, name)
		}(info.Name)
	}
	wg.Wait()

	sort.Strings(res.Subscribed)
	sort.Slice(res.Failures, func(i, j int) bool {
		return res.Failures[i].Function < res.Failures[j].Function
	})

	for _, f := range res.Failures {
		p.logger.Errorf("failed to subscribe %s (%s): %v", f.Function, f.LogGroup, f.Err)
		p.diag("forwarder", f.Function, fmt.Sprintf("subscription failed: %v", f.Err))
	}
	p.fwdResult = res
}

// injectTags ensures the service and environment tags exist on every
// function, never overwriting a user-supplied value.
func (p *Pipeline) injectTags() {
	if !p.cfg.EnableTags {
		return
	}

	for _, name := range p.manifest.FunctionNames() {
		fn := p.manifest.Functions[name]
		if fn.Tags == nil {
			fn.Tags = make(map[string]string)
		}
		setIfAbsent(fn.Tags, "service", p.cfg.Service)
		setIfAbsent(fn.Tags, "environment", p.cfg.Stage)
	}
}

// redirectHandlers rewrites each classified function's entry point to
// the instrumentation wrapper, recording the original handler for the
// wrapper to delegate to. Redirecting an already-redirected handler is
// a no-op. Unsupported functions are untouched.
func (p *Pipeline) redirectHandlers() {
	for _, info := range p.Functions() {
		if !info.Runtime.Supported() {
			continue
		}

		fn := p.manifest.Functions[info.Name]
		fcfg := p.cfg.ForFunction(fn)
		layersPresent := p.cfg.AddLayers && fcfg.AddLayers &&
			len(p.layers.Resolve(p.cfg.Region, info.Runtime.Type)) > 0

		target, ok := p.injector.WrapperHandler(info.Runtime, layersPresent)
		if !ok {
			p.diag("redirect", info.Name, fmt.Sprintf("no wrapper available for runtime %q", info.Runtime.Raw))
			continue
		}

		if fn.Handler == target {
			continue
		}

		if !layersPresent {
			if err := p.injector.EnsureWrapper(info.Runtime); err != nil {
				p.diag("redirect", info.Name, fmt.Sprintf("could not materialize wrapper: %v", err))
				continue
			}
		}

		if fn.Environment == nil {
			fn.Environment = make(map[string]string)
		}
		setIfAbsent(fn.Environment, wrapper.EnvOriginalHandler, fn.Handler)
		fn.Handler = target
		p.logger.Debugf("redirected %s to %s", info.Name, target)
	}
}

// logGroupFor returns the log destination identifier for a function.
func (p *Pipeline) logGroupFor(name string) string {
	return fmt.Sprintf("/aws/lambda/%s-%s-%s", p.cfg.Service, p.cfg.Stage, name)
}

func (p *Pipeline) diag(pass, function, message string) {
	d := Diagnostic{Function: function, Pass: pass, Message: message}
	p.diags = append(p.diags, d)
	p.logger.Printf("%s", d)
}

// setIfAbsent assigns value under key only when the key is missing.
// Reports whether the map changed.
func setIfAbsent(m map[string]string, key, value string) bool {
	if _, ok := m[key]; ok {
		return false
	}
	m[key] = value
	return true
}

// appendIfAbsent appends value when the slice does not already contain
// it. Reports whether the slice changed.
func appendIfAbsent(s *[]string, value string) bool {
	for _, v := range *s {
		if v == value {
			return false
		}
	}
	*s = append(*s, value)
	return true
}
