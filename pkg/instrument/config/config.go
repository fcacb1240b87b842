package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration constants
const (
	// DefaultConfigPath is the default path to the config file
	DefaultConfigPath = "~/.tracewire/config.yaml"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "TRACEWIRE_"
)

// Settings holds the tool-level instrumentation defaults. The manifest
// custom block and per-function overrides layer on top of these at
// resolution time.
type Settings struct {
	// Instrumentation toggles
	Instrument InstrumentSettings `koanf:"instrument"`

	// Forwarder subscription options
	Forwarder ForwarderSettings `koanf:"forwarder"`

	// Wrapper materialization options
	Wrapper WrapperSettings `koanf:"wrapper"`
}

// InstrumentSettings holds the global defaults for the mutation passes.
type InstrumentSettings struct {
	// Attach instrumentation layers to supported functions
	AddLayers bool `koanf:"add_layers"`

	// Enable vendor distributed tracing
	EnableTracing bool `koanf:"enable_tracing"`

	// Enable X-Ray tracing
	EnableXray bool `koanf:"enable_xray"`

	// Inject service/environment tags
	EnableTags bool `koanf:"enable_tags"`

	// Target the log-forwarder subscription pass wires to (empty
	// disables the pass)
	ForwarderARN string `koanf:"forwarder_arn"`

	// Module-type hint for Node-family runtime classification:
	// "node", "es6" or "typescript"
	ModuleType string `koanf:"module_type"`
}

// ForwarderSettings holds options for the remote subscription call.
type ForwarderSettings struct {
	// Timeout for one subscription request
	Timeout time.Duration `koanf:"timeout"`

	// Override for the subscription API endpoint (defaults to the
	// regional endpoint derived from the manifest)
	Endpoint string `koanf:"endpoint"`
}

// WrapperSettings holds options for handler-shim materialization.
type WrapperSettings struct {
	// Directory the wrapper shims are written to when layers are
	// not attached
	Dir string `koanf:"dir"`
}

// DefaultSettings returns settings with the documented defaults:
// layers on, vendor tracing on, X-Ray off, tags off, no forwarder.
func DefaultSettings() *Settings {
	return &Settings{
		Instrument: InstrumentSettings{
			AddLayers:     true,
			EnableTracing: true,
			EnableXray:    false,
			EnableTags:    false,
		},
		Forwarder: ForwarderSettings{
			Timeout: 30 * time.Second,
		},
		Wrapper: WrapperSettings{
			Dir: ".tracewire",
		},
	}
}

// LoadSettings loads settings from the specified path and environment
// variables, layered over the defaults.
func LoadSettings(configPath string) (*Settings, error) {
	k := koanf.New(".")

	// Set default values
	defaults := DefaultSettings()
	err := k.Load(newStructProvider(defaults), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}

	// Expand tilde in config path if needed
	expandedPath := configPath
	if strings.HasPrefix(configPath, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			expandedPath = filepath.Join(homeDir, configPath[2:])
		}
	}

	// Try to load from config file (if it exists)
	if _, err := os.Stat(expandedPath); err == nil {
		if err := k.Load(file.Provider(expandedPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Load from environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into Settings struct
	var settings Settings
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result: &settings,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

// structProvider is a provider that loads configuration from a struct
type structProvider struct {
	cfg interface{}
}

// newStructProvider creates a new struct provider
func newStructProvider(cfg interface{}) *structProvider {
	return &structProvider{cfg: cfg}
}

// Read reads the configuration from the struct
func (s *structProvider) Read() (map[string]interface{}, error) {
	var out map[string]interface{}

	// Use mapstructure to convert struct to map
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &out,
		TagName: "koanf",
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(s.cfg); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadBytes is required by the Provider interface but not used for struct providers
func (s *structProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("ReadBytes not supported for struct provider")
}
