package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheClear(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := filepath.Join(t.TempDir(), "pages")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.json"), []byte("{}"), 0o644))

	out, err := run(t, "cache", "clear", "--cache-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")
	assert.NoDirExists(t, dir)
}

func TestCacheClear_RefusesForeignFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644))

	_, err := run(t, "cache", "clear", "--cache-dir", dir)
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestCacheClear_DefaultDirFromConfig(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)
	require.NoError(t, os.WriteFile(".ebikerank.yaml", []byte("cache:\n  dir: my-cache\n"), 0o644))
	require.NoError(t, os.MkdirAll("my-cache", 0o755))

	out, err := run(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "my-cache")
	assert.NoDirExists(t, filepath.Join(work, "my-cache"))
}
