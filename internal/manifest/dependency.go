package manifest

import (
	"sort"
	"strings"
)

// dependency is one edge from a generated feature to something that must
// be enabled alongside it. crate is empty for a plain feature reference;
// optional marks edges that only apply when the target crate is present.
type dependency struct {
	crate    string
	feature  string
	optional bool
}

func (d dependency) String() string {
	switch {
	case d.crate == "":
		return d.feature
	case d.optional:
		return d.crate + "?/" + d.feature
	default:
		return d.crate + "/" + d.feature
	}
}

// DependencyHelper accumulates the dependency set of a single generated
// feature. It deduplicates edges and rejects reaching the same crate
// feature both optionally and mandatorily.
type DependencyHelper struct {
	feature string
	deps    map[dependency]struct{}
}

func newDependencyHelper(feature string) *DependencyHelper {
	return &DependencyHelper{
		feature: feature,
		deps:    make(map[dependency]struct{}),
	}
}

// AddDependency records one dependency given in manifest syntax:
// "name", "pkg/feature" or "pkg?/feature". Returns
// ErrInvalidDependencyFormat when spec contains more than one slash and
// ErrDependencyConflict when the opposite variant of a crate feature is
// already present.
func (h *DependencyHelper) AddDependency(spec string) error {
	if !strings.Contains(spec, "/") {
		h.deps[dependency{feature: spec}] = struct{}{}
		return nil
	}

	parts := strings.Split(spec, "/")
	if len(parts) != 2 {
		return ErrInvalidDependencyFormat
	}

	crate, feature := parts[0], parts[1]
	optional := strings.HasSuffix(crate, "?")
	if optional {
		crate = strings.TrimSuffix(crate, "?")
	}

	return h.addCrateFeature(crate, feature, optional)
}

// PropagateToCrate forwards this feature into the identically named
// feature of another crate.
func (h *DependencyHelper) PropagateToCrate(crate string, optional bool) error {
	return h.addCrateFeature(crate, h.feature, optional)
}

// addCrateFeature probes with the opposite variant before inserting: a
// crate feature reached mandatorily may not also be reached optionally,
// and vice versa.
func (h *DependencyHelper) addCrateFeature(crate, feature string, optional bool) error {
	conflict := dependency{crate: crate, feature: feature, optional: !optional}
	if _, ok := h.deps[conflict]; ok {
		return ErrDependencyConflict
	}

	h.deps[dependency{crate: crate, feature: feature, optional: optional}] = struct{}{}
	return nil
}

// render returns every edge as a string, lexicographically sorted so the
// serialized manifest is stable regardless of declaration order.
func (h *DependencyHelper) render() []string {
	out := make([]string, 0, len(h.deps))
	for dep := range h.deps {
		out = append(out, dep.String())
	}
	sort.Strings(out)
	return out
}
