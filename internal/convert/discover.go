// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/pdiddy/pukimd/internal/pagename"
	"github.com/pdiddy/pukimd/pkg/types"
)

// ErrNoPages is returned by Discover when the source directory holds no
// page files.
var ErrNoPages = errors.New("no .txt or .page files found")

// sourceExts are the PukiWiki page file extensions.
var sourceExts = map[string]bool{".txt": true, ".page": true}

// IsSource reports whether name has a PukiWiki page extension.
func IsSource(name string) bool {
	return sourceExts[filepath.Ext(name)]
}

// Discover lists the page files directly inside sourceDir in file name
// order. Hex-encoded names are decoded (falling back to nameEncoding for
// non-UTF-8 bytes) and made safe for the file system. When two files map to
// the same page name, later ones get a numeric suffix.
func Discover(sourceDir string, nameEncoding encoding.Encoding) ([]types.Page, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", sourceDir, err)
	}

	var pages []types.Page
	taken := make(map[string]bool)

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsSource(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		name, _ := pagename.FileName(base, nameEncoding)
		name = uniqueName(name, taken)

		pages = append(pages, types.Page{
			Name:       name,
			SourcePath: filepath.Join(sourceDir, entry.Name()),
			ModTime:    info.ModTime(),
		})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: %w", sourceDir, ErrNoPages)
	}
	return pages, nil
}

// uniqueName returns name, or name_2, name_3... if already taken, and marks
// the result taken. Case is folded since vaults often live on
// case-insensitive file systems.
func uniqueName(name string, taken map[string]bool) string {
	candidate := name
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	taken[strings.ToLower(candidate)] = true
	return candidate
}

// Clean removes existing *.md files from outputDir and returns how many were
// removed. Files that cannot be removed are reported to w and joined into
// the returned error; the rest are still removed. A missing directory is not
// an error.
func Clean(outputDir string, w io.Writer) (int, error) {
	entries, err := os.ReadDir(outputDir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading output directory %s: %w", outputDir, err)
	}

	var (
		removed int
		errs    []error
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(outputDir, entry.Name())
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", entry.Name(), err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "removed: %s\n", entry.Name())
		removed++
	}
	return removed, errors.Join(errs...)
}
