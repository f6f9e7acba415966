package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/olivierh59500/cosmic-orb-go/internal/config"
	"github.com/spf13/cobra"
)

var writeConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	RunE:  ShowConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&writeConfig, "write", false, "write the effective settings to the settings file")
}

func ShowConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if writeConfig {
		path := configPath
		if path == "" {
			if path, err = config.GetPath(); err != nil {
				return err
			}
		}
		if err := config.Write(path, cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Wrote", path)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
