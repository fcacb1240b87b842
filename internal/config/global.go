package config

import (
	"github.com/tracewire/tracewire/pkg/instrument/config"
)

// Global configuration variables
var (
	// ConfigPath is the path to the tool settings file
	ConfigPath = config.DefaultConfigPath

	// ManifestPath is the path to the service manifest ("" means
	// discover the default file names in the working directory)
	ManifestPath = ""

	// LogLevel controls pipeline log verbosity
	LogLevel = "info"
)
