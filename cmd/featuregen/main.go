package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Perlmint/manifest-feature-gen/internal/config"
	"github.com/Perlmint/manifest-feature-gen/internal/manifest"
	"github.com/Perlmint/manifest-feature-gen/internal/utils"
	"github.com/Perlmint/manifest-feature-gen/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

// Exit codes: 0 success (changed or not), 2 manifest rewritten and the
// build must be re-run, 1 anything fatal.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, manifest.ErrManifestChanged) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "featuregen",
	Short: "Regenerate the feature table of a package manifest",
	Long: `featuregen synchronizes the feature table of a package manifest during
a build step. It regenerates the declared optional features with their
dependency edges, tags them with a marker comment so the next run can
replace them, determines which features are requested for the current
build from the environment, and rewrites the manifest only when its
content actually changed.

Feature groups are declared in featuregen.yaml. With --abort-on-change a
rewrite exits with code 2 so the build driver can restart the build.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./featuregen.yaml)")
	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Manifest path (default: $BUILD_MANIFEST_DIR/"+manifest.ManifestFilename+")")
	rootCmd.PersistentFlags().Bool("abort-on-change", false, "Exit with the re-run signal when the manifest is rewritten")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (pretty or json)")

	// Bind flags to viper
	_ = viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("abort_on_change", rootCmd.PersistentFlags().Lookup("abort-on-change"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log = utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})

	var m *manifest.Manifest
	if cfg.Manifest != "" {
		m, err = manifest.Load(cfg.Manifest, cfg.AbortOnChange)
	} else {
		m, err = manifest.LoadFromEnv(cfg.AbortOnChange)
	}
	if err != nil {
		return err
	}
	log = log.WithManifest(m.Path())
	log.Debug().Int("groups", len(cfg.Groups)).Msg("manifest loaded")

	for _, group := range cfg.Groups {
		if err := syncGroup(m, group); err != nil {
			return err
		}
	}

	changed, err := m.Write()
	if err != nil {
		if errors.Is(err, manifest.ErrManifestChanged) {
			log.Info().Msg("manifest rewritten, signaling build restart")
		}
		return err
	}
	if changed {
		log.Info().Msg("manifest updated")
	} else {
		log.Info().Msg("manifest unchanged")
	}
	return nil
}

// syncGroup regenerates one feature group. Dependency declaration errors
// are collected from the setter and reported after the group is synced.
func syncGroup(m *manifest.Manifest, group config.Group) error {
	var declErr error
	setDeps := func(f config.Feature, deps *manifest.DependencyHelper) {
		for _, spec := range f.Dependencies {
			if err := deps.AddDependency(spec); err != nil && declErr == nil {
				declErr = fmt.Errorf("feature %s: dependency %q: %w", f.Name, spec, err)
			}
		}
		for _, p := range f.Propagate {
			if err := deps.PropagateToCrate(p.Crate, p.Optional); err != nil && declErr == nil {
				declErr = fmt.Errorf("feature %s: propagate to %s: %w", f.Name, p.Crate, err)
			}
		}
	}

	groupLog := log.WithGroup(group.Name)
	if group.MutuallyExclusive {
		selected, ok, err := manifest.AddMutuallyExclusiveFeatures(m, group.Features, setDeps)
		if err != nil {
			return err
		}
		if declErr != nil {
			return declErr
		}
		if ok {
			groupLog.Info().Str("feature", selected.Name).Msg("feature selected")
		}
		return nil
	}

	selected, err := manifest.AddFeatures(m, group.Features, setDeps)
	if err != nil {
		return err
	}
	if declErr != nil {
		return declErr
	}
	for _, f := range selected {
		groupLog.Debug().Str("feature", f.Name).Msg("feature selected")
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
