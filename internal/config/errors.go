package config

import "errors"

// Sentinel errors for the config package
var (
	// ErrNoGroups indicates the configuration declares no feature groups
	ErrNoGroups = errors.New("config must declare at least one feature group")

	// ErrUnnamedGroup indicates a group is missing its name
	ErrUnnamedGroup = errors.New("group name cannot be empty")

	// ErrNoFeatures indicates a group declares no features
	ErrNoFeatures = errors.New("group must declare at least one feature")

	// ErrUnnamedFeature indicates a feature is missing its name
	ErrUnnamedFeature = errors.New("feature name cannot be empty")

	// ErrUnnamedCrate indicates a propagation target is missing its crate
	ErrUnnamedCrate = errors.New("propagation crate cannot be empty")
)
