package manifest

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Write finalizes the manifest. It re-collects the feature table,
// compares it structurally against the snapshot taken at load time and
// writes the document back only when they differ, leaving all untouched
// entries and comments as they were. changed reports whether a write
// happened.
//
// With abort-on-change enabled a rewrite is returned as
// ErrManifestChanged: the caller must stop the current build and let the
// next invocation, which will observe no change, proceed.
//
// Write consumes the manifest: any further Write or Add call fails with
// ErrManifestConsumed.
func (m *Manifest) Write() (changed bool, err error) {
	if m.consumed {
		return false, ErrManifestConsumed
	}
	m.consumed = true

	current, err := collectFeatures(m.root)
	if err != nil {
		return false, err
	}
	if featureSetsEqual(current, m.original) {
		return false, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.doc); err != nil {
		return false, fmt.Errorf("failed to serialize manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return false, fmt.Errorf("failed to serialize manifest: %w", err)
	}

	if err := os.WriteFile(m.path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("failed to write manifest file: %w", err)
	}

	if m.abortOnChange {
		return true, ErrManifestChanged
	}
	return true, nil
}

func featureSetsEqual(a, b map[string]map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for name, deps := range a {
		other, ok := b[name]
		if !ok || len(deps) != len(other) {
			return false
		}
		for dep := range deps {
			if _, ok := other[dep]; !ok {
				return false
			}
		}
	}
	return true
}
