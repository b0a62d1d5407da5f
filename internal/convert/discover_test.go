package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
}

func pageNames(t *testing.T, dir string) []string {
	t.Helper()
	pages, err := Discover(dir, japanese.EUCJP)
	require.NoError(t, err)
	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}
	return names
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "466F6F.txt", "Bar.page", "notes.md", "RecentChanges.dat")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	pages, err := Discover(dir, japanese.EUCJP)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "Foo", pages[0].Name)
	assert.Equal(t, filepath.Join(dir, "466F6F.txt"), pages[0].SourcePath)
	assert.False(t, pages[0].ModTime.IsZero())
	assert.Equal(t, "Bar", pages[1].Name)
}

func TestDiscover_DecodesNames(t *testing.T) {
	dir := t.TempDir()
	// "日本" in UTF-8 and in EUC-JP, and a name that needs sanitizing.
	touch(t, dir, "E697A5E69CAC.txt", "C6FCCBDC.txt", "412F42.txt")

	assert.Equal(t, []string{"A_B", "日本", "日本_2"}, pageNames(t, dir))
}

func TestDiscover_CaseInsensitiveCollision(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Foo.page", "foo.txt")

	assert.Equal(t, []string{"Foo", "foo_2"}, pageNames(t, dir))
}

func TestDiscover_Empty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")

	_, err := Discover(dir, nil)
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPages)
}

func TestIsSource(t *testing.T) {
	assert.True(t, IsSource("a.txt"))
	assert.True(t, IsSource("a.page"))
	assert.False(t, IsSource("a.md"))
	assert.False(t, IsSource("txt"))
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.md", "b.md", "keep.txt", "keep.html")

	var out bytes.Buffer
	n, err := Clean(dir, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.NoFileExists(t, filepath.Join(dir, "a.md"))
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
	assert.FileExists(t, filepath.Join(dir, "keep.html"))
	assert.Contains(t, out.String(), "removed: a.md")
}

func TestClean_MissingDir(t *testing.T) {
	n, err := Clean(filepath.Join(t.TempDir(), "nope"), &bytes.Buffer{})
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestMerge(t *testing.T) {
	outDir, logDir := t.TempDir(), filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.md"), []byte("B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.md"), []byte("# A"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "a.html"), []byte("<p>"), 0o644))

	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)
	path, err := Merge(outDir, logDir, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(logDir, "2026_03_14_obsidian.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"\n\n---\n## FILE: a.md\n---\n\n# A"+
			"\n\n---\n## FILE: b.md\n---\n\nB",
		string(data))
}

func TestMerge_NothingToMerge(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	path, err := Merge(t.TempDir(), logDir, time.Now())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.NoDirExists(t, logDir)
}

func TestMergeName(t *testing.T) {
	assert.Equal(t, "2026_01_02_obsidian.md", MergeName(time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC)))
}
