package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the manifest package
var (
	// ErrManifestDirNotSet indicates the BUILD_MANIFEST_DIR environment
	// variable is missing
	ErrManifestDirNotSet = errors.New("environment variable BUILD_MANIFEST_DIR is not set")

	// ErrManifestChanged signals that the manifest was rewritten and the
	// build must be re-run. It is a control signal, not a defect: the next
	// invocation will observe no change and proceed.
	ErrManifestChanged = errors.New("manifest changed, re-run the build")

	// ErrManifestConsumed indicates Write was called on a manifest that
	// has already been finalized
	ErrManifestConsumed = errors.New("manifest has already been written")

	// ErrDependencyConflict indicates the same crate feature was requested
	// both optionally and mandatorily within one feature
	ErrDependencyConflict = errors.New("conflicting dependency already present")

	// ErrInvalidDependencyFormat indicates a dependency string that does
	// not match name, pkg/feature or pkg?/feature
	ErrInvalidDependencyFormat = errors.New("invalid dependency format")
)

// MalformedManifestError reports a manifest whose features table has an
// unexpected shape. Detail names the offending feature where one exists.
type MalformedManifestError struct {
	Detail string
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("manifest is malformed: %s", e.Detail)
}

// MutualExclusionError reports that more than one feature of a mutually
// exclusive group was selected for the same build. Features holds every
// selected name, in selection order.
type MutualExclusionError struct {
	Features []string
}

func (e *MutualExclusionError) Error() string {
	return fmt.Sprintf("mutually exclusive features enabled at the same time: %s",
		strings.Join(e.Features, ", "))
}
