// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/pukimd/internal/settings"
	"github.com/pdiddy/pukimd/pkg/types"
)

// flagKeys maps flag names to the settings keys they override.
var flagKeys = map[string]string{
	"source-dir": settings.KeySourceDir,
	"output-dir": settings.KeyOutputDir,
	"encoding":   settings.KeyEncoding,
	"workers":    settings.KeyWorkers,
	"clean":      settings.KeyClean,
	"merge":      settings.KeyMerge,
	"html":       settings.KeyHTML,
	"log-dir":    settings.KeyLogDir,
	"schedule":   settings.KeySchedule,
	"watch":      settings.KeyWatch,
	"debounce":   settings.KeyDebounce,
}

// addConvertFlags registers the flags that shape a conversion run.
func addConvertFlags(fs *pflag.FlagSet) {
	d := settings.Defaults()
	fs.String("source-dir", d.SourceDir, "PukiWiki wiki/ directory with .txt/.page files")
	fs.String("output-dir", d.OutputDir, "directory for the converted .md files")
	fs.String("encoding", d.Encoding, "source encoding: auto, utf-8, euc-jp or shift_jis")
	fs.Int("workers", d.Workers, "concurrent conversions (0 = number of CPUs)")
	fs.Bool("clean", d.Clean, "remove existing .md files from output-dir first")
	fs.Bool("merge", d.Merge, "also concatenate all output into log-dir/YYYY_MM_DD_obsidian.md")
	fs.Bool("html", d.HTML, "also write an HTML preview next to each .md file")
	addLogDirFlag(fs)
	fs.Bool("no-manifest", !d.Manifest, "convert every page without consulting or updating the manifest")
}

// addRefreshFlags registers the flags of the auto-refresh scheduler.
func addRefreshFlags(fs *pflag.FlagSet) {
	d := settings.Defaults()
	fs.String("schedule", d.Schedule, `cron spec for periodic runs, e.g. "@every 10m" or "0 3 * * *"`)
	fs.Bool("watch", d.Watch, "re-run when files in source-dir change")
	fs.Duration("debounce", d.Debounce, "quiet period after a change before re-running")
}

func addLogDirFlag(fs *pflag.FlagSet) {
	fs.String("log-dir", settings.Defaults().LogDir, "directory for the error log, manifest and merged output")
}

// bindFlags binds cmd's settings flags into viper so a flag given on the
// command line wins over the environment and the config file. Binding
// happens per command because several commands share flag names.
func bindFlags(cmd *cobra.Command) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := viper.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("binding --%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// loadSettings resolves and validates the settings for cmd.
func loadSettings(cmd *cobra.Command) (types.Settings, error) {
	s := settings.FromViper(viper.GetViper())
	if f := cmd.Flags().Lookup("no-manifest"); f != nil && f.Changed {
		noManifest, _ := cmd.Flags().GetBool("no-manifest")
		s.Manifest = !noManifest
	}
	if err := settings.Validate(s); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
