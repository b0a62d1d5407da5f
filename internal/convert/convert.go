// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives batch conversion of a PukiWiki wiki/ directory into
// an Obsidian vault: one Markdown file per page, converted concurrently.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/pdiddy/pukimd/internal/charset"
	"github.com/pdiddy/pukimd/internal/errlog"
	"github.com/pdiddy/pukimd/internal/manifest"
	"github.com/pdiddy/pukimd/pkg/types"
)

// Converter transforms decoded PukiWiki text into Markdown.
type Converter interface {
	Convert(src string) string
}

// EngineFunc adapts a plain function, such as pukiwiki.Convert, to
// Converter.
type EngineFunc func(string) string

// Convert calls f(src).
func (f EngineFunc) Convert(src string) string { return f(src) }

// Manifest is the part of the manifest store the batch needs.
type Manifest interface {
	Lookup(ctx context.Context, source string) (*types.Record, error)
	Record(ctx context.Context, rec types.Record) error
}

// Renderer produces an HTML preview of converted Markdown.
type Renderer interface {
	Render(ctx context.Context, title, markdown string) (string, error)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of pages processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any page failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Batch converts pages into OutputDir. Converter and OutputDir are required;
// the other fields are optional.
type Batch struct {
	Converter Converter
	OutputDir string

	// Encoding forces the source encoding; "" or "auto" detects per page.
	Encoding string

	// Workers bounds concurrency (0 = GOMAXPROCS).
	Workers int

	// Force converts pages the manifest reports as unchanged.
	Force bool

	// Manifest, when set, is consulted to skip unchanged pages and updated
	// after every page.
	Manifest Manifest

	// Renderer, when set, also writes <name>.html next to <name>.md.
	Renderer Renderer

	// Log receives failures and warnings (nil discards them).
	Log *errlog.Log

	// Out receives one status line per page and a summary (nil discards).
	Out io.Writer

	mu sync.Mutex
}

// pageResult is the outcome of one page, filled in by a worker.
type pageResult struct {
	status types.Status
	err    error
}

// Run converts pages with a bounded worker pool and prints per-page status
// lines and a summary to b.Out. Pages still queued when ctx is cancelled are
// counted as failed.
func (b *Batch) Run(ctx context.Context, pages []types.Page) BatchResult {
	if b.Log == nil {
		b.Log = errlog.Discard()
	}
	if b.Out == nil {
		b.Out = io.Discard
	}

	results := make([]pageResult, len(pages))

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	var wg sync.WaitGroup
	jobs := make(chan int, len(pages))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = b.cancelled(pages[idx], err)
					continue
				}
				results[idx] = b.convertPage(ctx, pages[idx])
			}
		}()
	}

	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var result BatchResult
	for _, r := range results {
		switch r.status {
		case types.StatusConverted:
			result.Converted++
		case types.StatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	fmt.Fprintf(b.Out, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// OutputPath returns where the Markdown for page is written.
func (b *Batch) OutputPath(page types.Page) string {
	return filepath.Join(b.OutputDir, page.Name+".md")
}

func (b *Batch) convertPage(ctx context.Context, page types.Page) pageResult {
	mdPath := b.OutputPath(page)

	if b.Manifest != nil && !b.Force {
		rec, err := b.Manifest.Lookup(ctx, page.SourcePath)
		if err != nil {
			b.Log.Warn(page.Name, "manifest lookup failed", "error", err)
		} else if manifest.Unchanged(rec, page.ModTime) && fileExists(mdPath) {
			b.status("skipped: %s (unchanged)\n", page.Name)
			return pageResult{status: types.StatusSkipped}
		}
	}

	data, err := os.ReadFile(page.SourcePath)
	if err != nil {
		return b.fail(ctx, page, "", fmt.Errorf("reading source: %w", err))
	}

	text, used, err := charset.Decode(data, b.Encoding)
	switch {
	case errors.Is(err, charset.ErrUndetectable):
		b.Log.Warn(page.Name, "encoding not detected, reading as UTF-8", "source", page.SourcePath)
	case err != nil:
		return b.fail(ctx, page, used, err)
	}

	md := b.Converter.Convert(text)

	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return b.fail(ctx, page, used, fmt.Errorf("creating output directory: %w", err))
	}
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return b.fail(ctx, page, used, fmt.Errorf("writing output: %w", err))
	}

	if b.Renderer != nil {
		html, err := b.Renderer.Render(ctx, page.Name, md)
		if err != nil {
			return b.fail(ctx, page, used, fmt.Errorf("rendering preview: %w", err))
		}
		htmlPath := filepath.Join(b.OutputDir, page.Name+".html")
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			return b.fail(ctx, page, used, fmt.Errorf("writing preview: %w", err))
		}
	}

	b.record(ctx, page, used, types.StatusConverted, nil)
	b.status("converted: %s\n", page.Name)
	return pageResult{status: types.StatusConverted}
}

func (b *Batch) fail(ctx context.Context, page types.Page, encoding string, err error) pageResult {
	b.Log.Failure(page.Name, err)
	b.record(ctx, page, encoding, types.StatusFailed, err)
	b.status("failed:  %s (%v)\n", page.Name, err)
	return pageResult{status: types.StatusFailed, err: err}
}

// cancelled reports a page that was never started. The manifest is left
// alone so the next run picks the page up.
func (b *Batch) cancelled(page types.Page, err error) pageResult {
	b.status("failed:  %s (%v)\n", page.Name, err)
	return pageResult{status: types.StatusFailed, err: err}
}

func (b *Batch) record(ctx context.Context, page types.Page, encoding string, status types.Status, cause error) {
	if b.Manifest == nil {
		return
	}
	// Outcomes are recorded even if the run is cancelled mid-page.
	ctx = context.WithoutCancel(ctx)

	rec := types.Record{
		Source:      page.SourcePath,
		Page:        page.Name,
		Output:      b.OutputPath(page),
		Encoding:    encoding,
		SourceMod:   page.ModTime,
		Status:      status,
		ConvertedAt: time.Now(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := b.Manifest.Record(ctx, rec); err != nil {
		b.Log.Warn(page.Name, "manifest update failed", "error", err)
	}
}

func (b *Batch) status(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.Out, format, args...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
