package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Perlmint/manifest-feature-gen/internal/config"
	"github.com/Perlmint/manifest-feature-gen/internal/manifest"
	"github.com/Perlmint/manifest-feature-gen/internal/utils"
)

func loadTestManifest(t *testing.T, content string, env manifest.EnvLookup) *manifest.Manifest {
	t.Helper()
	path := filepath.Join(t.TempDir(), manifest.ManifestFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := manifest.Load(path, false, manifest.WithEnvLookup(env))
	require.NoError(t, err)
	return m
}

func init() {
	log = utils.NewDefaultLogger()
}

func TestSyncGroup_GeneratesFeatures(t *testing.T) {
	m := loadTestManifest(t, "name: demo\n", func(string) bool { return false })

	group := config.Group{
		Name: "codecs",
		Features: []config.Feature{
			{Name: "zstd", Dependencies: []string{"compress/zstd"}},
			{Name: "lz4", Propagate: []config.Propagation{{Crate: "compress", Optional: true}}},
		},
	}

	require.NoError(t, syncGroup(m, group))

	changed, err := m.Write()
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "zstd: [compress/zstd] # auto-generated by featuregen")
	assert.Contains(t, string(data), "lz4: [compress?/lz4] # auto-generated by featuregen")
}

func TestSyncGroup_ReportsDeclarationError(t *testing.T) {
	m := loadTestManifest(t, "name: demo\n", func(string) bool { return false })

	group := config.Group{
		Name: "broken",
		Features: []config.Feature{
			{Name: "bad", Dependencies: []string{"a/b/c"}},
		},
	}

	err := syncGroup(m, group)

	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrInvalidDependencyFormat)
	assert.Contains(t, err.Error(), `dependency "a/b/c"`)
}

func TestSyncGroup_MutualExclusionViolation(t *testing.T) {
	env := func(name string) bool {
		return name == "BUILD_FEATURE_GL" || name == "BUILD_FEATURE_VK"
	}
	m := loadTestManifest(t, "name: demo\n", env)

	group := config.Group{
		Name:              "backends",
		MutuallyExclusive: true,
		Features: []config.Feature{
			{Name: "gl"},
			{Name: "vk"},
		},
	}

	err := syncGroup(m, group)

	var exclusion *manifest.MutualExclusionError
	require.ErrorAs(t, err, &exclusion)
	assert.Equal(t, []string{"gl", "vk"}, exclusion.Features)
}
