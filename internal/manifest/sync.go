package manifest

import "strings"

// FeatureNamer provides the manifest name of a feature descriptor.
// Names are conventionally written in kebab-case or snake_case.
type FeatureNamer interface {
	FeatureName() string
}

// DependencySetter declares the dependencies of one feature descriptor.
// Helper methods return conflict and format errors to the setter, which
// decides whether to ignore, log or collect them; the synchronizer itself
// never fails on them.
type DependencySetter[T any] func(feature T, deps *DependencyHelper)

// AddFeatures regenerates one manifest entry per descriptor, in input
// order, and returns the descriptors selected for the current build. A
// descriptor is selected when its indicator variable (BUILD_FEATURE_ plus
// the upper-cased name, hyphens replaced by underscores) is present in
// the environment.
//
// When a hand-written feature named __<name> exists, it is added as a
// dependency of the generated <name> entry, so a generated feature can be
// extended manually without touching generated content.
func AddFeatures[T FeatureNamer](m *Manifest, features []T, setDeps DependencySetter[T]) ([]T, error) {
	return AddFeaturesNamed(m, features, setDeps, func(f T) string { return f.FeatureName() })
}

// AddFeaturesNamed is AddFeatures with a caller-supplied name formatter
// instead of the FeatureNamer interface.
func AddFeaturesNamed[T any](m *Manifest, features []T, setDeps DependencySetter[T], nameOf func(T) string) ([]T, error) {
	if m.consumed {
		return nil, ErrManifestConsumed
	}

	var selected []T
	for _, feature := range features {
		name := nameOf(feature)
		helper := newDependencyHelper(name)

		manual := "__" + name
		if _, v := mappingGet(m.features, manual); v != nil {
			helper.deps[dependency{feature: manual}] = struct{}{}
		}

		if setDeps != nil {
			setDeps(feature, helper)
		}

		value := newFlowSequence(helper.render())
		value.LineComment = markerComment
		mappingSet(m.features, name, value)

		if m.lookupEnv(selectionEnvVar(name)) {
			selected = append(selected, feature)
		}
	}

	return selected, nil
}

// AddMutuallyExclusiveFeatures is AddFeatures restricted to at most one
// selection: selecting several descriptors of the group in the same build
// fails with a MutualExclusionError naming all of them. ok reports
// whether any descriptor was selected.
func AddMutuallyExclusiveFeatures[T FeatureNamer](m *Manifest, features []T, setDeps DependencySetter[T]) (selected T, ok bool, err error) {
	return AddMutuallyExclusiveFeaturesNamed(m, features, setDeps, func(f T) string { return f.FeatureName() })
}

// AddMutuallyExclusiveFeaturesNamed is AddMutuallyExclusiveFeatures with
// a caller-supplied name formatter.
func AddMutuallyExclusiveFeaturesNamed[T any](m *Manifest, features []T, setDeps DependencySetter[T], nameOf func(T) string) (selected T, ok bool, err error) {
	var zero T

	chosen, err := AddFeaturesNamed(m, features, setDeps, nameOf)
	if err != nil {
		return zero, false, err
	}
	if len(chosen) > 1 {
		names := make([]string, len(chosen))
		for i, f := range chosen {
			names[i] = nameOf(f)
		}
		return zero, false, &MutualExclusionError{Features: names}
	}
	if len(chosen) == 0 {
		return zero, false, nil
	}
	return chosen[0], true, nil
}

// selectionEnvVar derives the indicator variable name for one feature.
func selectionEnvVar(feature string) string {
	return selectionEnvPrefix + strings.ToUpper(strings.ReplaceAll(feature, "-", "_"))
}
