package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebikeratings/ebikerank/internal/projectconfig"
)

func TestInit_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := filepath.Join(t.TempDir(), "project")

	out, err := run(t, "init", dir, "--yes")
	require.NoError(t, err)
	path := filepath.Join(dir, projectconfig.FileName)
	assert.Contains(t, out, path)
	require.FileExists(t, path)

	cfg, err := projectconfig.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, projectconfig.DefaultDataFile, cfg.Data.File)
	assert.Equal(t, projectconfig.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, projectconfig.DefaultEnrichCategory, cfg.Enrich.Category)
}

func TestInit_ExistingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, projectconfig.FileName)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1234\n"), 0o644))

	_, err := run(t, "init", dir, "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", dir, "--yes", "--force")
	require.NoError(t, err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "1234")
}
