// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pukimd/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save pukimd settings",
}

// --- show subcommand ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved settings as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings.FromViper(viper.GetViper())
		data, err := yaml.Marshal(&s)
		if err != nil {
			return fmt.Errorf("marshaling settings: %w", err)
		}
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// --- save subcommand ---

var configSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Write the resolved settings to a config file",
	Long: `Save writes the current settings (config file, environment and any
flags given here) to path, to the config file in use, or to ./pukimd.yaml.

  pukimd config save --source-dir /srv/pukiwiki/wiki --encoding euc-jp`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		path := viper.ConfigFileUsed()
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			path = settings.DefaultPath()
		}

		if err := settings.Save(s, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", path)
		return nil
	},
}

func init() {
	addConvertFlags(configSaveCmd.Flags())
	addRefreshFlags(configSaveCmd.Flags())

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	rootCmd.AddCommand(configCmd)
}
