package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assertEqual(t, "Data.File", "ebike-data.json", cfg.Data.File)

	// Server
	assertEqual(t, "Server.Host", "127.0.0.1", cfg.Server.Host)
	assertEqualInt(t, "Server.Port", 3000, cfg.Server.Port)
	assertBoolPtr(t, "Server.Watch", true, cfg.Server.Watch)
	if cfg.Server.CORSOrigins != nil {
		t.Error("Server.CORSOrigins should be nil by default")
	}

	// Build
	assertEqual(t, "Build.OutputDir", "dist", cfg.Build.OutputDir)
	if len(cfg.Build.Assets) != 1 || cfg.Build.Assets[0] != "static/**" {
		t.Errorf("Build.Assets = %v, want [static/**]", cfg.Build.Assets)
	}

	// Publish
	assertEqual(t, "Publish.Container", "$web", cfg.Publish.Container)
	assertEqualInt(t, "Publish.Concurrency", 4, cfg.Publish.Concurrency)

	// Enrich
	assertEqual(t, "Enrich.Category", "motori", cfg.Enrich.Category)
	assertEqual(t, "Enrich.Output", "ebike-data-updated.json", cfg.Enrich.Output)
	assertEqual(t, "Enrich.Reviews", "reviews.yaml", cfg.Enrich.Reviews)
	assertEqualInt(t, "Enrich.MaxURLs", 3, cfg.Enrich.MaxURLs)
	if cfg.Enrich.Rate != 1 {
		t.Errorf("Enrich.Rate = %v, want 1", cfg.Enrich.Rate)
	}

	// Cache
	assertBoolPtr(t, "Cache.Enabled", true, cfg.Cache.Enabled)
	assertEqual(t, "Cache.Dir", ".ebikerank-cache", cfg.Cache.Dir)
	if cfg.Cache.MaxAge != 7*24*time.Hour {
		t.Errorf("Cache.MaxAge = %v, want 168h", cfg.Cache.MaxAge)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
data:
  file: data/bikes.json
server:
  host: 0.0.0.0
  port: 8080
  watch: false
  cors_origins:
    - http://localhost:5173
build:
  output_dir: public
  assets: ["static/*.css"]
publish:
  account_url: https://example.blob.core.windows.net
  container: site
  prefix: v2
  concurrency: 8
enrich:
  category: freni
  output: out.json
  reviews: sources.yaml
  rate: 0.5
  max_urls: 5
  user_agent: test-agent
cache:
  enabled: false
  dir: /tmp/pages
  max_age: 1h30m
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Data.File", "data/bikes.json", cfg.Data.File)
	assertEqual(t, "Server.Host", "0.0.0.0", cfg.Server.Host)
	assertEqualInt(t, "Server.Port", 8080, cfg.Server.Port)
	assertBoolPtr(t, "Server.Watch", false, cfg.Server.Watch)
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	assertEqual(t, "Build.OutputDir", "public", cfg.Build.OutputDir)
	assertEqual(t, "Publish.AccountURL", "https://example.blob.core.windows.net", cfg.Publish.AccountURL)
	assertEqual(t, "Publish.Container", "site", cfg.Publish.Container)
	assertEqual(t, "Publish.Prefix", "v2", cfg.Publish.Prefix)
	assertEqualInt(t, "Publish.Concurrency", 8, cfg.Publish.Concurrency)
	assertEqual(t, "Enrich.Category", "freni", cfg.Enrich.Category)
	assertEqual(t, "Enrich.UserAgent", "test-agent", cfg.Enrich.UserAgent)
	assertEqualInt(t, "Enrich.MaxURLs", 5, cfg.Enrich.MaxURLs)
	if cfg.Enrich.Rate != 0.5 {
		t.Errorf("Enrich.Rate = %v, want 0.5", cfg.Enrich.Rate)
	}
	assertBoolPtr(t, "Cache.Enabled", false, cfg.Cache.Enabled)
	assertEqual(t, "Cache.Dir", "/tmp/pages", cfg.Cache.Dir)
	if cfg.Cache.MaxAge != 90*time.Minute {
		t.Errorf("Cache.MaxAge = %v, want 1h30m", cfg.Cache.MaxAge)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
server:
  port: 9000
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Overridden
	assertEqualInt(t, "Server.Port", 9000, cfg.Server.Port)

	// Defaults preserved
	assertEqual(t, "Server.Host", "127.0.0.1", cfg.Server.Host)
	assertBoolPtr(t, "Server.Watch", true, cfg.Server.Watch)
	assertEqual(t, "Data.File", "ebike-data.json", cfg.Data.File)
	assertEqual(t, "Enrich.Category", "motori", cfg.Enrich.Category)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Should be identical to New()
	defaults := New()
	assertEqual(t, "Data.File", defaults.Data.File, cfg.Data.File)
	assertEqualInt(t, "Server.Port", defaults.Server.Port, cfg.Server.Port)
	assertEqual(t, "Build.OutputDir", defaults.Build.OutputDir, cfg.Build.OutputDir)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
server:
  host: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	if err == nil {
		t.Fatal("Load() should return error for invalid YAML")
	}
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
data:
  file: found-it.json
`)

	child := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(child)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	assertEqual(t, "Data.File", "found-it.json", cfg.Data.File)
	// Other defaults still populated
	assertEqualInt(t, "Server.Port", 3000, cfg.Server.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
data:
  file: from-file.json
server:
  port: 8080
`)
	t.Setenv(EnvDataFile, "from-env.json")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvHost, "0.0.0.0")
	t.Setenv(EnvAccountURL, "https://env.blob.core.windows.net")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	assertEqual(t, "Data.File", "from-env.json", cfg.Data.File)
	assertEqualInt(t, "Server.Port", 9090, cfg.Server.Port)
	assertEqual(t, "Server.Host", "0.0.0.0", cfg.Server.Host)
	assertEqual(t, "Publish.AccountURL", "https://env.blob.core.windows.net", cfg.Publish.AccountURL)
}

func TestLoad_InvalidEnvPort(t *testing.T) {
	t.Setenv(EnvPort, "eighty")
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load() should reject a non-numeric port")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
