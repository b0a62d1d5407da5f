// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pukimd CLI, which converts a
// PukiWiki wiki/ directory into Obsidian-flavoured Markdown.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/pdiddy/pukimd/internal/settings"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pukimd CLI.
var rootCmd = &cobra.Command{
	Use:   "pukimd",
	Short: "Convert PukiWiki pages to Obsidian Markdown",
	Long: `pukimd converts the page files of a PukiWiki site (wiki/*.txt) into
Markdown that Obsidian understands: headings, lists, emphasis, wiki links,
images, preformatted blocks and both PukiWiki table dialects.

Settings come from flags, PUKIMD_* environment variables, and pukimd.yaml
(in the current directory or ~/.config/pukimd/), in that order of
precedence. Use "pukimd config save" to write the current settings.`,
	SilenceUsage: true,
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: the hook calls verbosef, which reads rootCmd's flags.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
		if _, err := maxprocs.Set(maxprocs.Logger(verbosef)); err != nil {
			verbosef("maxprocs: %v", err)
		}
		return bindFlags(cmd)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pukimd.yaml or ~/.config/pukimd/pukimd.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print diagnostic output to stderr")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable coloured status output")
}

func initConfig() {
	settings.SetDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(settings.ConfigName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", settings.ConfigName))
		}
	}

	settings.ConfigureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// verbosef prints to stderr when --verbose is set.
func verbosef(format string, args ...any) {
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
