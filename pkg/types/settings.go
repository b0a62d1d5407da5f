// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Settings holds the resolved configuration for a conversion run. It is
// read from pukimd.yaml, PUKIMD_* environment variables and flags, and can
// be written back with `pukimd config save`.
type Settings struct {
	// SourceDir is the PukiWiki wiki/ directory holding *.txt or *.page files.
	SourceDir string `json:"source_dir" yaml:"source_dir"`

	// OutputDir receives one Markdown file per page.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Encoding is the source encoding: auto, utf-8, euc-jp or shift_jis.
	Encoding string `json:"encoding" yaml:"encoding"`

	// Workers bounds concurrent page conversions (0 = GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers"`

	// Clean removes existing *.md files from OutputDir before converting.
	Clean bool `json:"clean" yaml:"clean"`

	// Merge concatenates all outputs into LogDir/YYYY_MM_DD_obsidian.md.
	Merge bool `json:"merge" yaml:"merge"`

	// HTML also writes an HTML preview beside each Markdown file.
	HTML bool `json:"html" yaml:"html"`

	// LogDir holds the error log, the manifest database and merged output.
	LogDir string `json:"log_dir" yaml:"log_dir"`

	// Manifest enables the SQLite manifest used to skip unchanged pages.
	Manifest bool `json:"manifest" yaml:"manifest"`

	// Schedule is a cron spec for `pukimd watch` (e.g. "@every 5m").
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`

	// Watch re-runs the conversion when files in SourceDir change.
	Watch bool `json:"watch" yaml:"watch"`

	// Debounce is the quiet period after a file change before re-running.
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}
