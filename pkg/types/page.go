// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status is the outcome of converting one page.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Page is a PukiWiki source file discovered for conversion.
type Page struct {
	// Name is the decoded, file-system safe page name; the output file is
	// Name + ".md".
	Name string `json:"name" yaml:"name"`

	// SourcePath is the path of the PukiWiki source file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// ModTime is the source file's modification time at discovery.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Record is the manifest entry written after each conversion attempt.
type Record struct {
	Source      string    `json:"source" yaml:"source"`
	Page        string    `json:"page" yaml:"page"`
	Output      string    `json:"output" yaml:"output"`
	Encoding    string    `json:"encoding" yaml:"encoding"`
	SourceMod   time.Time `json:"source_mod_time" yaml:"source_mod_time"`
	Status      Status    `json:"status" yaml:"status"`
	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}
