package di

import (
	"go.uber.org/dig"

	"github.com/tracewire/tracewire/pkg/bundler"
	"github.com/tracewire/tracewire/pkg/forwarder"
	"github.com/tracewire/tracewire/pkg/instrument"
	"github.com/tracewire/tracewire/pkg/instrument/config"
	"github.com/tracewire/tracewire/pkg/instrument/lifecycle"
	"github.com/tracewire/tracewire/pkg/layers"
	"github.com/tracewire/tracewire/pkg/manifest"
	"github.com/tracewire/tracewire/pkg/wrapper"
)

// BuildContainer builds the dependency injection container with the
// pipeline and all its collaborators for one command execution.
func BuildContainer(settings *config.Settings, m *manifest.ServiceManifest, logger instrument.Logger) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() *config.Settings {
		return settings
	}); err != nil {
		return nil, err
	}

	// Register manifest
	if err := container.Provide(func() *manifest.ServiceManifest {
		return m
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func() instrument.Logger {
		return logger
	}); err != nil {
		return nil, err
	}

	// Register resolved configuration
	if err := container.Provide(instrument.Resolve); err != nil {
		return nil, err
	}

	// Register layer resolver
	if err := container.Provide(func() instrument.LayerResolver {
		return layers.NewStaticResolver()
	}); err != nil {
		return nil, err
	}

	// Register handler-wrapper injector
	if err := container.Provide(func(settings *config.Settings) instrument.HandlerInjector {
		return wrapper.NewFileInjector(settings.Wrapper.Dir)
	}); err != nil {
		return nil, err
	}

	// Register forwarder binder
	if err := container.Provide(func(settings *config.Settings, m *manifest.ServiceManifest) forwarder.Binder {
		return forwarder.NewHTTPBinder(m.Provider.Region, settings.Forwarder.Endpoint, settings.Forwarder.Timeout)
	}); err != nil {
		return nil, err
	}

	// Register bundler hook
	if err := container.Provide(func() instrument.BundlerHook {
		return bundler.NewHook()
	}); err != nil {
		return nil, err
	}

	// Register pipeline
	if err := container.Provide(instrument.NewPipeline); err != nil {
		return nil, err
	}

	// Register lifecycle dispatcher
	if err := container.Provide(func(p *instrument.Pipeline) *lifecycle.Dispatcher {
		return lifecycle.NewDispatcher(p)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// GetPipeline retrieves the Pipeline from the container.
func GetPipeline(container *dig.Container) (*instrument.Pipeline, error) {
	var pipeline *instrument.Pipeline
	if err := container.Invoke(func(p *instrument.Pipeline) {
		pipeline = p
	}); err != nil {
		return nil, err
	}
	return pipeline, nil
}

// GetDispatcher retrieves the lifecycle Dispatcher from the container.
func GetDispatcher(container *dig.Container) (*lifecycle.Dispatcher, error) {
	var dispatcher *lifecycle.Dispatcher
	if err := container.Invoke(func(d *lifecycle.Dispatcher) {
		dispatcher = d
	}); err != nil {
		return nil, err
	}
	return dispatcher, nil
}
