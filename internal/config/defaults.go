package config

// Default values
const (
	// DefaultConfigName is the config file name looked up next to the
	// build, without extension.
	DefaultConfigName = "featuregen"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)
