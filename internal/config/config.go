// Package config loads the featuregen declaration file: which feature
// groups to regenerate in the manifest and how the tool should behave.
package config

import (
	"fmt"
)

// Config represents the featuregen configuration
type Config struct {
	// Manifest is the manifest path; empty means resolve it from
	// BUILD_MANIFEST_DIR.
	Manifest      string        `mapstructure:"manifest" yaml:"manifest"`
	AbortOnChange bool          `mapstructure:"abort_on_change" yaml:"abort_on_change"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Groups        []Group       `mapstructure:"groups" yaml:"groups"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Group is one set of features regenerated together. A mutually exclusive
// group allows at most one of its features to be selected per build.
type Group struct {
	Name              string    `mapstructure:"name" yaml:"name"`
	MutuallyExclusive bool      `mapstructure:"mutually_exclusive" yaml:"mutually_exclusive"`
	Features          []Feature `mapstructure:"features" yaml:"features"`
}

// Feature declares one generated feature: its name, its dependency
// strings and the crates its activation is forwarded to.
type Feature struct {
	Name         string        `mapstructure:"name" yaml:"name"`
	Dependencies []string      `mapstructure:"dependencies" yaml:"dependencies"`
	Propagate    []Propagation `mapstructure:"propagate" yaml:"propagate"`
}

// Propagation forwards a feature into the identically named feature of
// another crate.
type Propagation struct {
	Crate    string `mapstructure:"crate" yaml:"crate"`
	Optional bool   `mapstructure:"optional" yaml:"optional"`
}

// FeatureName returns the manifest name of the feature.
func (f Feature) FeatureName() string {
	return f.Name
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return ErrNoGroups
	}
	for gi, group := range c.Groups {
		if group.Name == "" {
			return fmt.Errorf("group %d: %w", gi, ErrUnnamedGroup)
		}
		if len(group.Features) == 0 {
			return fmt.Errorf("group %s: %w", group.Name, ErrNoFeatures)
		}
		for fi, feature := range group.Features {
			if feature.Name == "" {
				return fmt.Errorf("group %s: feature %d: %w", group.Name, fi, ErrUnnamedFeature)
			}
			for _, propagation := range feature.Propagate {
				if propagation.Crate == "" {
					return fmt.Errorf("group %s: feature %s: %w", group.Name, feature.Name, ErrUnnamedCrate)
				}
			}
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}
