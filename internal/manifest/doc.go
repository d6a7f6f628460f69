// Package manifest regenerates the feature table of a package build
// manifest. Generated entries are tagged with a trailing marker comment
// and removed again on the next load, so every run starts from the
// hand-written entries only and regeneration is idempotent.
//
// # Manifest Format
//
// The manifest is a YAML document whose features key maps feature names
// to arrays of dependency strings:
//
//	name: demo
//	features:
//	  minimal: []
//	  fast: [simd, lowlevel/unsafe] # auto-generated by featuregen
//
// A dependency string is a plain feature name, pkg/feature for a feature
// of another package, or pkg?/feature when the edge only applies if that
// package is present. Untouched entries keep their formatting and
// comments across a rewrite.
//
// # Usage
//
// A build step loads the manifest, declares its generated features and
// finalizes exactly once:
//
//	m, err := manifest.LoadFromEnv(true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	selected, err := manifest.AddFeatures(m, descriptors,
//	    func(d Descriptor, deps *manifest.DependencyHelper) {
//	        _ = deps.PropagateToCrate("runtime", false)
//	    })
//
//	if _, err := m.Write(); err != nil {
//	    if errors.Is(err, manifest.ErrManifestChanged) {
//	        // manifest rewritten: stop and re-run the build
//	    }
//	}
//
// Selection is read from the environment: feature some-name is selected
// when BUILD_FEATURE_SOME_NAME is set, regardless of its value.
//
// # Error Handling
//
// Fatal conditions (I/O, parse, malformed table, mutual exclusion) abort
// the synchronization with no partial write. Dependency conflicts and
// format errors are returned to the per-feature setter, which decides how
// to handle them. ErrManifestChanged is a control signal, not a defect.
package manifest
