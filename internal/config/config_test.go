package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate_NoGroups(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()

	assert.ErrorIs(t, err, ErrNoGroups)
}

func TestConfig_Validate_UnnamedFeature(t *testing.T) {
	cfg := &Config{
		Groups: []Group{
			{Name: "backends", Features: []Feature{{Name: ""}}},
		},
	}

	err := cfg.Validate()

	assert.ErrorIs(t, err, ErrUnnamedFeature)
	assert.Contains(t, err.Error(), "backends")
}

func TestConfig_Validate_EmptyGroup(t *testing.T) {
	cfg := &Config{
		Groups: []Group{{Name: "backends"}},
	}

	err := cfg.Validate()

	assert.ErrorIs(t, err, ErrNoFeatures)
}

func TestConfig_Validate_AppliesLoggingDefaults(t *testing.T) {
	cfg := &Config{
		Groups: []Group{
			{Name: "simple", Features: []Feature{{Name: "fast"}}},
		},
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestLoad_ValidYAML(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	content := `
manifest: ./package.yaml
abort_on_change: true
groups:
  - name: backends
    mutually_exclusive: true
    features:
      - name: gl
        dependencies: ["gfx/gl"]
      - name: vk
        dependencies: ["gfx/vk"]
        propagate:
          - crate: runtime
            optional: true
`
	path := filepath.Join(t.TempDir(), "featuregen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "./package.yaml", cfg.Manifest)
	assert.True(t, cfg.AbortOnChange)
	require.Len(t, cfg.Groups, 1)
	group := cfg.Groups[0]
	assert.Equal(t, "backends", group.Name)
	assert.True(t, group.MutuallyExclusive)
	require.Len(t, group.Features, 2)
	assert.Equal(t, "gl", group.Features[0].FeatureName())
	assert.Equal(t, []string{"gfx/gl"}, group.Features[0].Dependencies)
	require.Len(t, group.Features[1].Propagate, 1)
	assert.Equal(t, "runtime", group.Features[1].Propagate[0].Crate)
	assert.True(t, group.Features[1].Propagate[0].Optional)
}

func TestLoad_FileNotFound(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_MissingDefaultConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")

	// No file is tolerated, but an empty config has nothing to do.
	assert.ErrorIs(t, err, ErrNoGroups)
	assert.Nil(t, cfg)
}
