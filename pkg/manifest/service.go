package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	domainerrors "github.com/tracewire/tracewire/pkg/instrument/errors"
)

// DefaultFiles are the manifest file names looked up in the working
// directory when no explicit path is given.
var DefaultFiles = []string{"tracewire.yml", "tracewire.yaml", "serverless.yml", "serverless.yaml"}

// ServiceManifest is the declarative description of one service and its
// deployable functions. The mutation pipeline edits it in place.
type ServiceManifest struct {
	Service   string               `yaml:"service" toml:"service" validate:"required"`
	Provider  Provider             `yaml:"provider" toml:"provider"`
	Functions map[string]*Function `yaml:"functions" toml:"functions"`
	Custom    Custom               `yaml:"custom,omitempty" toml:"custom,omitempty"`
}

// Provider holds the service-wide deployment settings functions inherit.
type Provider struct {
	Name        string            `yaml:"name,omitempty" toml:"name,omitempty"`
	Region      string            `yaml:"region" toml:"region" validate:"required"`
	Stage       string            `yaml:"stage,omitempty" toml:"stage,omitempty"`
	Runtime     string            `yaml:"runtime,omitempty" toml:"runtime,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty" toml:"environment,omitempty"`
	Tracing     *ProviderTracing  `yaml:"tracing,omitempty" toml:"tracing,omitempty"`
}

// ProviderTracing mirrors the provider-level tracing block the X-Ray
// injection pass toggles.
type ProviderTracing struct {
	Lambda bool `yaml:"lambda" toml:"lambda"`
}

// Function describes one deployable unit. Name is populated from the
// functions map key on load and is not serialized.
type Function struct {
	Name        string            `yaml:"-" toml:"-"`
	Handler     string            `yaml:"handler" toml:"handler" validate:"required"`
	Runtime     string            `yaml:"runtime,omitempty" toml:"runtime,omitempty"`
	Layers      []string          `yaml:"layers,omitempty" toml:"layers,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty" toml:"tags,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty" toml:"environment,omitempty"`
	Instrument  *Overrides        `yaml:"instrument,omitempty" toml:"instrument,omitempty"`
}

// Overrides are the per-function instrumentation flags. Nil fields
// inherit the resolved service-wide value.
type Overrides struct {
	AddLayers     *bool `yaml:"addLayers,omitempty" toml:"add_layers,omitempty"`
	EnableTracing *bool `yaml:"enableTracing,omitempty" toml:"enable_tracing,omitempty"`
	EnableXray    *bool `yaml:"enableXray,omitempty" toml:"enable_xray,omitempty"`
}

// Custom carries the manifest blocks owned by tooling rather than the
// provider: the service-wide instrumentation settings and an optional
// bundler configuration.
type Custom struct {
	Instrument *InstrumentSettings `yaml:"instrument,omitempty" toml:"instrument,omitempty"`
	Esbuild    *EsbuildConfig      `yaml:"esbuild,omitempty" toml:"esbuild,omitempty"`
}

// InstrumentSettings is the in-manifest counterpart of the tool-level
// settings file; non-nil fields override it for this service.
type InstrumentSettings struct {
	AddLayers     *bool  `yaml:"addLayers,omitempty" toml:"add_layers,omitempty"`
	EnableTracing *bool  `yaml:"enableTracing,omitempty" toml:"enable_tracing,omitempty"`
	EnableXray    *bool  `yaml:"enableXray,omitempty" toml:"enable_xray,omitempty"`
	EnableTags    *bool  `yaml:"enableTags,omitempty" toml:"enable_tags,omitempty"`
	ForwarderARN  string `yaml:"forwarderArn,omitempty" toml:"forwarder_arn,omitempty"`
	ModuleType    string `yaml:"moduleType,omitempty" toml:"module_type,omitempty"`
}

// EsbuildConfig is the bundler block the exclusion hook edits.
type EsbuildConfig struct {
	Bundle   bool     `yaml:"bundle,omitempty" toml:"bundle,omitempty"`
	External []string `yaml:"external,omitempty" toml:"external,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
}

var validate = validator.New()

// Discover resolves the manifest path, falling back to the default
// file names in the current directory when filePath is empty.
func Discover(filePath string) (string, error) {
	if filePath != "" {
		return filePath, nil
	}
	for _, file := range DefaultFiles {
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", domainerrors.New(domainerrors.DomainManifest, domainerrors.CodeManifestNotFound,
		fmt.Sprintf("no manifest found, expected %s in current directory", DefaultFiles[0]))
}

// Load reads, parses and validates a service manifest. An empty path
// falls back to the default file names in the current directory.
func Load(filePath string) (*ServiceManifest, error) {
	filePath, err := Discover(filePath)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domainerrors.New(domainerrors.DomainManifest, domainerrors.CodeManifestNotFound,
				fmt.Sprintf("manifest not found: %s", absPath))
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*ServiceManifest, error) {
	var m ServiceManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, domainerrors.Wrap(domainerrors.DomainManifest, domainerrors.CodeInvalidManifest,
			"failed to parse manifest", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	m.normalize()
	return &m, nil
}

// Validate checks the structural invariants of the manifest.
func (m *ServiceManifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return domainerrors.Wrap(domainerrors.DomainManifest, domainerrors.CodeInvalidManifest,
			"manifest failed validation", err)
	}
	for name, fn := range m.Functions {
		if fn == nil {
			return domainerrors.New(domainerrors.DomainManifest, domainerrors.CodeInvalidManifest,
				"empty function definition").WithFunction(name)
		}
		if err := validate.Struct(fn); err != nil {
			return domainerrors.Wrap(domainerrors.DomainManifest, domainerrors.CodeInvalidManifest,
				"function failed validation", err).WithFunction(name)
		}
	}
	return nil
}

// normalize propagates map keys into Function.Name.
func (m *ServiceManifest) normalize() {
	for name, fn := range m.Functions {
		fn.Name = name
	}
}

// RuntimeFor returns the function's declared runtime, falling back to
// the provider-wide default.
func (m *ServiceManifest) RuntimeFor(fn *Function) string {
	if fn.Runtime != "" {
		return fn.Runtime
	}
	return m.Provider.Runtime
}

// Stage returns the deployment stage, defaulting to "dev" the way the
// surrounding tooling does when none is declared.
func (m *ServiceManifest) Stage() string {
	if m.Provider.Stage != "" {
		return m.Provider.Stage
	}
	return "dev"
}

// FunctionNames returns the function names in deterministic order.
func (m *ServiceManifest) FunctionNames() []string {
	names := make([]string, 0, len(m.Functions))
	for name := range m.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalYaml serializes the manifest back to yaml.
func (m *ServiceManifest) MarshalYaml() ([]byte, error) {
	return yaml.Marshal(m)
}

// MarshalToml serializes the manifest to toml.
func (m *ServiceManifest) MarshalToml() ([]byte, error) {
	return toml.Marshal(m)
}

// Save writes the manifest to disk in yaml form.
func (m *ServiceManifest) Save(filePath string) error {
	data, err := m.MarshalYaml()
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
