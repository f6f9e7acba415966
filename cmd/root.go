package cmd

import (
	"fmt"
	"os"

	"github.com/olivierh59500/cosmic-orb-go/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seed       uint64
	segments   int
)

var rootCmd = &cobra.Command{
	Use:   "orb",
	Short: "A glowing, deforming point-cloud orb",
	Long: `orb renders a continuously deforming point-cloud sphere whose color
drifts through a palette and tilts with the pointer.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file (default is the user config dir)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "palette and shimmer seed, 0 for random")
	rootCmd.PersistentFlags().IntVar(&segments, "segments", 0, "override sphere segment count")
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the settings file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := configPath
	if path == "" {
		p, err := config.GetPath()
		if err != nil {
			return config.Config{}, fmt.Errorf("locate settings: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("segments") {
		cfg.Segments = segments
	}
	return cfg, cfg.Validate()
}
