// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MergeName returns the merged file name for day, e.g.
// 2026_03_14_obsidian.md.
func MergeName(day time.Time) string {
	return day.Format("2006_01_02") + "_obsidian.md"
}

// Merge concatenates every *.md file in outputDir, sorted by name, into
// logDir/MergeName(now). Each file is preceded by a "## FILE: <name>"
// banner between horizontal rules. It returns the merged file's path, or ""
// when there was nothing to merge. Unreadable files are skipped and
// reported in the returned error.
func Merge(outputDir, logDir string, now time.Time) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("reading output directory %s: %w", outputDir, err)
	}

	var (
		b    strings.Builder
		errs []error
		n    int
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(outputDir, entry.Name()))
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", entry.Name(), err))
			continue
		}
		fmt.Fprintf(&b, "\n\n---\n## FILE: %s\n---\n\n", entry.Name())
		b.Write(data)
		n++
	}
	if n == 0 {
		return "", errors.Join(errs...)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(logDir, MergeName(now))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, errors.Join(errs...)
}
