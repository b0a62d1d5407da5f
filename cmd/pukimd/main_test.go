package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pukimd/internal/settings"
	"github.com/pdiddy/pukimd/pkg/types"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = prev })
}

func TestStatusWriterPlain(t *testing.T) {
	withColor(t, false)
	var buf bytes.Buffer
	w := newStatusWriter(&buf)

	for _, line := range []string{"converted: a\n", "failed:  b (boom)\n", "\nBatch summary: 1 converted\n", "other\n"} {
		n, err := w.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}

	assert.Equal(t, "converted: a\nfailed:  b (boom)\n\nBatch summary: 1 converted\nother\n", buf.String())
}

func TestStatusWriterColour(t *testing.T) {
	withColor(t, true)
	var buf bytes.Buffer
	w := newStatusWriter(&buf)

	_, err := w.Write([]byte("converted: a\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("failed:  b (boom)\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("plain\n"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "\x1b[32mconverted: a\x1b[0m\n")
	assert.Contains(t, out, "\x1b[31mfailed:  b (boom)\x1b[0m\n")
	assert.True(t, strings.HasSuffix(out, "plain\n"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "日本語...", truncate("日本語のページ名", 6))
}

func TestFormatHistoryOutput(t *testing.T) {
	records := []types.Record{
		{Page: "FrontPage", Status: types.StatusConverted, Encoding: "euc-jp", ConvertedAt: time.Now()},
		{Page: "Broken", Status: types.StatusFailed, Error: "reading source: denied"},
	}

	var buf bytes.Buffer
	require.NoError(t, formatHistoryOutput(&buf, records, false))
	out := buf.String()
	assert.Contains(t, out, "FrontPage")
	assert.Contains(t, out, "reading source: denied")
	assert.Contains(t, out, "2 records")

	buf.Reset()
	require.NoError(t, formatHistoryOutput(&buf, records, true))
	assert.Contains(t, buf.String(), `"page": "FrontPage"`)

	buf.Reset()
	require.NoError(t, formatHistoryOutput(&buf, nil, false))
	assert.Equal(t, "No conversions recorded.\n", buf.String())
}

func TestConvertAll(t *testing.T) {
	withColor(t, false)
	root := t.TempDir()
	src := filepath.Join(root, "wiki")
	require.NoError(t, os.MkdirAll(src, 0o755))
	// "FrontPage" hex-encoded, as PukiWiki stores it.
	require.NoError(t, os.WriteFile(filepath.Join(src, "46726F6E7450616765.txt"),
		[]byte("*Welcome\n|~Name|~Value|h\n|a|b|\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "4D656E75426172.txt"),
		[]byte("-[[FrontPage]]\n"), 0o644))

	s := settings.Defaults()
	s.SourceDir = src
	s.OutputDir = filepath.Join(root, "vault")
	s.LogDir = filepath.Join(root, "logs")
	s.Merge = true
	s.HTML = true

	var out bytes.Buffer
	result, err := convertAll(context.Background(), s, false, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Converted)
	assert.False(t, result.HasFailures())

	front, err := os.ReadFile(filepath.Join(s.OutputDir, "FrontPage.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Welcome\n\n| Name | Value |\n| --- | --- |\n| a | b |", string(front))

	menu, err := os.ReadFile(filepath.Join(s.OutputDir, "MenuBar.md"))
	require.NoError(t, err)
	assert.Equal(t, "- [[FrontPage]]", string(menu))

	assert.FileExists(t, filepath.Join(s.OutputDir, "FrontPage.html"))
	assert.FileExists(t, filepath.Join(s.LogDir, "manifest.db"))
	assert.Contains(t, out.String(), "merged: ")
	assert.Contains(t, out.String(), "Batch summary: 2 converted, 0 skipped, 0 failed (total: 2)")

	// A second run skips everything through the manifest.
	out.Reset()
	result, err = convertAll(context.Background(), s, false, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)

	// --force converts again.
	result, err = convertAll(context.Background(), s, true, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Converted)
}

func TestConvertAllNoPages(t *testing.T) {
	root := t.TempDir()
	s := settings.Defaults()
	s.SourceDir = root
	s.OutputDir = filepath.Join(root, "vault")
	s.LogDir = filepath.Join(root, "logs")

	_, err := convertAll(context.Background(), s, false, &bytes.Buffer{})
	assert.Error(t, err)
}
