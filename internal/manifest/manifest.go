package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ManifestFilename is the fixed manifest name resolved inside
	// BUILD_MANIFEST_DIR by LoadFromEnv.
	ManifestFilename = "package.yaml"

	// manifestDirEnv names the directory containing the manifest.
	manifestDirEnv = "BUILD_MANIFEST_DIR"

	// featuresTableName is the manifest key holding the feature table.
	featuresTableName = "features"

	// markerComment tags feature entries owned by the generator. Tagged
	// entries are removed and regenerated on every run, so the comment
	// must never be added to a hand-written entry.
	markerComment = "# auto-generated by featuregen"

	// selectionEnvPrefix prefixes the per-feature selection indicator
	// variables.
	selectionEnvPrefix = "BUILD_FEATURE_"
)

// EnvLookup reports whether an environment variable is set. The value is
// irrelevant: presence alone marks a feature as selected.
type EnvLookup func(name string) bool

// Option configures a Manifest at load time.
type Option func(*Manifest)

// WithEnvLookup replaces the process environment used for feature
// selection. Tests use it to supply a deterministic environment.
func WithEnvLookup(lookup EnvLookup) Option {
	return func(m *Manifest) {
		m.lookupEnv = lookup
	}
}

// Manifest is a package manifest opened for feature regeneration. Loading
// snapshots the existing feature table and removes every entry tagged
// with the auto-generated marker, so each run starts from the
// hand-written entries only. A Manifest must be finalized exactly once
// with Write and not used afterwards.
//
// A Manifest is not safe for concurrent use, and two generator processes
// must not run against the same path at the same time.
type Manifest struct {
	path          string
	doc           *yaml.Node
	root          *yaml.Node
	features      *yaml.Node
	original      map[string]map[string]struct{}
	abortOnChange bool
	lookupEnv     EnvLookup
	consumed      bool
}

// Load reads and parses the manifest at path. abortOnChange selects the
// write-protocol of Write: when set, a rewrite is reported as
// ErrManifestChanged so the caller can stop the current build.
func Load(path string, abortOnChange bool, opts ...Option) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	doc := &yaml.Node{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if doc.Kind == 0 {
		// Empty file: start from an empty document.
		doc.Kind = yaml.DocumentNode
	}

	root, err := rootMapping(doc)
	if err != nil {
		return nil, err
	}

	original, err := collectFeatures(root)
	if err != nil {
		return nil, err
	}

	_, features := mappingGet(root, featuresTableName)
	if features == nil {
		features = newMapping()
		mappingSet(root, featuresTableName, features)
	}
	// A flow-style table ({}) cannot carry the per-entry marker comments,
	// so the table itself is always emitted in block style.
	features.Style = 0

	m := &Manifest{
		path:          path,
		doc:           doc,
		root:          root,
		features:      features,
		original:      original,
		abortOnChange: abortOnChange,
		lookupEnv:     lookupOSEnv,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.clearGeneratedFeatures(); err != nil {
		return nil, err
	}

	return m, nil
}

// LoadFromEnv loads the manifest of the package currently being built:
// ManifestFilename inside the directory named by BUILD_MANIFEST_DIR.
func LoadFromEnv(abortOnChange bool, opts ...Option) (*Manifest, error) {
	dir, ok := os.LookupEnv(manifestDirEnv)
	if !ok {
		return nil, ErrManifestDirNotSet
	}
	return Load(filepath.Join(dir, ManifestFilename), abortOnChange, opts...)
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return m.path
}

// collectFeatures snapshots the feature table as feature name → set of
// dependency strings. A missing table yields an empty snapshot; any entry
// that is not an array of strings is a malformed manifest.
func collectFeatures(root *yaml.Node) (map[string]map[string]struct{}, error) {
	out := make(map[string]map[string]struct{})

	_, features := mappingGet(root, featuresTableName)
	if features == nil {
		return out, nil
	}
	if features.Kind != yaml.MappingNode {
		return nil, &MalformedManifestError{Detail: "features is not a mapping"}
	}

	for i := 0; i+1 < len(features.Content); i += 2 {
		key, value := features.Content[i], features.Content[i+1]
		if value.Kind != yaml.SequenceNode {
			return nil, &MalformedManifestError{
				Detail: fmt.Sprintf("feature(%s) is not an array", key.Value),
			}
		}

		deps := make(map[string]struct{}, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return nil, &MalformedManifestError{
					Detail: fmt.Sprintf("feature(%s) has non string item as dependency", key.Value),
				}
			}
			deps[item.Value] = struct{}{}
		}
		out[key.Value] = deps
	}

	return out, nil
}

// clearGeneratedFeatures deletes every feature entry whose trailing
// comment matches the auto-generated marker. Matching names are collected
// first and removed in a second pass so iteration never races mutation of
// the same node.
func (m *Manifest) clearGeneratedFeatures() error {
	var stale []string
	for i := 0; i+1 < len(m.features.Content); i += 2 {
		key, value := m.features.Content[i], m.features.Content[i+1]
		if value.Kind != yaml.SequenceNode {
			return &MalformedManifestError{
				Detail: fmt.Sprintf("value of feature(%s) is not an array", key.Value),
			}
		}
		if strings.TrimSpace(entryLineComment(key, value)) == markerComment {
			stale = append(stale, key.Value)
		}
	}

	for _, name := range stale {
		mappingDelete(m.features, name)
	}
	return nil
}

func lookupOSEnv(name string) bool {
	_, ok := os.LookupEnv(name)
	return ok
}
