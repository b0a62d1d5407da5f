// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings resolves pukimd configuration from viper (flags, PUKIMD_*
// environment variables and pukimd.yaml) into types.Settings, validates it,
// and writes it back as YAML.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pukimd/internal/charset"
	"github.com/pdiddy/pukimd/pkg/types"
)

// Configuration keys, shared by viper, flags and pukimd.yaml.
const (
	KeySourceDir = "source_dir"
	KeyOutputDir = "output_dir"
	KeyEncoding  = "encoding"
	KeyWorkers   = "workers"
	KeyClean     = "clean"
	KeyMerge     = "merge"
	KeyHTML      = "html"
	KeyLogDir    = "log_dir"
	KeyManifest  = "manifest"
	KeySchedule  = "schedule"
	KeyWatch     = "watch"
	KeyDebounce  = "debounce"
)

// ConfigName is the config file base name searched for by the CLI.
const ConfigName = "pukimd"

// EnvPrefix prefixes environment overrides, e.g. PUKIMD_SOURCE_DIR.
const EnvPrefix = "PUKIMD"

// ErrUnknownEncoding is returned by Validate for an unsupported encoding.
var ErrUnknownEncoding = charset.ErrUnknownEncoding

// Defaults returns the settings used when nothing is configured.
func Defaults() types.Settings {
	return types.Settings{
		SourceDir: "wiki",
		OutputDir: "output",
		Encoding:  charset.Auto,
		LogDir:    "logs",
		Manifest:  true,
		Debounce:  2 * time.Second,
	}
}

// SetDefaults registers Defaults with v so unset keys resolve to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeySourceDir, d.SourceDir)
	v.SetDefault(KeyOutputDir, d.OutputDir)
	v.SetDefault(KeyEncoding, d.Encoding)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyClean, d.Clean)
	v.SetDefault(KeyMerge, d.Merge)
	v.SetDefault(KeyHTML, d.HTML)
	v.SetDefault(KeyLogDir, d.LogDir)
	v.SetDefault(KeyManifest, d.Manifest)
	v.SetDefault(KeySchedule, d.Schedule)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyDebounce, d.Debounce)
}

// ConfigureEnv makes v read PUKIMD_* variables, mapping "-" and "." in keys
// to "_".
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// FromViper reads the resolved settings out of v. The encoding name is
// canonicalized; call Validate before use.
func FromViper(v *viper.Viper) types.Settings {
	s := types.Settings{
		SourceDir: v.GetString(KeySourceDir),
		OutputDir: v.GetString(KeyOutputDir),
		Encoding:  v.GetString(KeyEncoding),
		Workers:   v.GetInt(KeyWorkers),
		Clean:     v.GetBool(KeyClean),
		Merge:     v.GetBool(KeyMerge),
		HTML:      v.GetBool(KeyHTML),
		LogDir:    v.GetString(KeyLogDir),
		Manifest:  v.GetBool(KeyManifest),
		Schedule:  v.GetString(KeySchedule),
		Watch:     v.GetBool(KeyWatch),
		Debounce:  v.GetDuration(KeyDebounce),
	}
	if c, err := charset.Canonical(s.Encoding); err == nil {
		s.Encoding = c
	}
	return s
}

// Validate reports every problem with s joined into one error.
func Validate(s types.Settings) error {
	var errs []error
	if strings.TrimSpace(s.SourceDir) == "" {
		errs = append(errs, errors.New("source_dir is required"))
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if _, err := charset.Canonical(s.Encoding); err != nil {
		errs = append(errs, err)
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", s.Workers))
	}
	if s.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce must be >= 0, got %s", s.Debounce))
	}
	if (s.Manifest || s.Merge) && strings.TrimSpace(s.LogDir) == "" {
		errs = append(errs, errors.New("log_dir is required for manifest and merge"))
	}
	return errors.Join(errs...)
}

// Save writes s to path as YAML, creating parent directories.
func Save(s types.Settings, path string) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns ./pukimd.yaml, where the CLI looks first.
func DefaultPath() string {
	return ConfigName + ".yaml"
}
