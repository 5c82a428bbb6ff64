// Package projectconfig provides the ProjectConfig struct and loader for
// .ebikerank.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = ".ebikerank.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultDataFile = "ebike-data.json"

	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 3000

	DefaultBuildOutputDir = "dist"

	DefaultPublishContainer   = "$web"
	DefaultPublishConcurrency = 4

	DefaultEnrichCategory = "motori"
	DefaultEnrichOutput   = "ebike-data-updated.json"
	DefaultEnrichReviews  = "reviews.yaml"
	DefaultEnrichRate     = 1.0
	DefaultEnrichMaxURLs  = 3

	DefaultCacheDir    = ".ebikerank-cache"
	DefaultCacheMaxAge = 7 * 24 * time.Hour
)

// Environment overrides, applied after the file.
const (
	EnvDataFile   = "EBIKERANK_DATA_FILE"
	EnvHost       = "EBIKERANK_HOST"
	EnvPort       = "EBIKERANK_PORT"
	EnvAccountURL = "EBIKERANK_STORAGE_ACCOUNT_URL"
)

// DataConfig locates the data document.
type DataConfig struct {
	File string `yaml:"file,omitempty"`
}

// ServerConfig holds web server settings.
type ServerConfig struct {
	Host        string   `yaml:"host,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	Watch       *bool    `yaml:"watch,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
}

// BuildConfig holds static export settings.
type BuildConfig struct {
	OutputDir string   `yaml:"output_dir,omitempty"`
	Assets    []string `yaml:"assets,omitempty"`
}

// PublishConfig holds blob upload settings.
type PublishConfig struct {
	AccountURL  string `yaml:"account_url,omitempty"`
	Container   string `yaml:"container,omitempty"`
	Prefix      string `yaml:"prefix,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// EnrichConfig holds rating enrichment settings.
type EnrichConfig struct {
	Category  string  `yaml:"category,omitempty"`
	Output    string  `yaml:"output,omitempty"`
	Reviews   string  `yaml:"reviews,omitempty"`
	Rate      float64 `yaml:"rate,omitempty"`
	MaxURLs   int     `yaml:"max_urls,omitempty"`
	UserAgent string  `yaml:"user_agent,omitempty"`
}

// CacheConfig holds review page cache settings.
type CacheConfig struct {
	Enabled *bool         `yaml:"enabled,omitempty"`
	Dir     string        `yaml:"dir,omitempty"`
	MaxAge  time.Duration `yaml:"max_age,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .ebikerank.yaml.
type ProjectConfig struct {
	Data    DataConfig    `yaml:"data,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Build   BuildConfig   `yaml:"build,omitempty"`
	Publish PublishConfig `yaml:"publish,omitempty"`
	Enrich  EnrichConfig  `yaml:"enrich,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Data: DataConfig{
			File: DefaultDataFile,
		},
		Server: ServerConfig{
			Host:  DefaultServerHost,
			Port:  DefaultServerPort,
			Watch: boolPtr(true),
		},
		Build: BuildConfig{
			OutputDir: DefaultBuildOutputDir,
			Assets:    []string{"static/**"},
		},
		Publish: PublishConfig{
			Container:   DefaultPublishContainer,
			Concurrency: DefaultPublishConcurrency,
		},
		Enrich: EnrichConfig{
			Category: DefaultEnrichCategory,
			Output:   DefaultEnrichOutput,
			Reviews:  DefaultEnrichReviews,
			Rate:     DefaultEnrichRate,
			MaxURLs:  DefaultEnrichMaxURLs,
		},
		Cache: CacheConfig{
			Enabled: boolPtr(true),
			Dir:     DefaultCacheDir,
			MaxAge:  DefaultCacheMaxAge,
		},
	}
}

// Load finds .ebikerank.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults and applies the
// EBIKERANK_* environment overrides.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// no file found → defaults
	case err != nil:
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	default:
		var fileCfg ProjectConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		mergeConfig(cfg, &fileCfg)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile walks up from dir looking for .ebikerank.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

func applyEnv(cfg *ProjectConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataFile); ok && v != "" {
		cfg.Data.File = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		cfg.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || port < 0 || port > 65535 {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookup(EnvAccountURL); ok && v != "" {
		cfg.Publish.AccountURL = v
	}
	return nil
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Data
	if src.Data.File != "" {
		dst.Data.File = src.Data.File
	}

	// Server
	if src.Server.Host != "" {
		dst.Server.Host = src.Server.Host
	}
	if src.Server.Port != 0 {
		dst.Server.Port = src.Server.Port
	}
	if src.Server.Watch != nil {
		dst.Server.Watch = src.Server.Watch
	}
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = src.Server.CORSOrigins
	}

	// Build
	if src.Build.OutputDir != "" {
		dst.Build.OutputDir = src.Build.OutputDir
	}
	if src.Build.Assets != nil {
		dst.Build.Assets = src.Build.Assets
	}

	// Publish
	if src.Publish.AccountURL != "" {
		dst.Publish.AccountURL = src.Publish.AccountURL
	}
	if src.Publish.Container != "" {
		dst.Publish.Container = src.Publish.Container
	}
	if src.Publish.Prefix != "" {
		dst.Publish.Prefix = src.Publish.Prefix
	}
	if src.Publish.Concurrency != 0 {
		dst.Publish.Concurrency = src.Publish.Concurrency
	}

	// Enrich
	if src.Enrich.Category != "" {
		dst.Enrich.Category = src.Enrich.Category
	}
	if src.Enrich.Output != "" {
		dst.Enrich.Output = src.Enrich.Output
	}
	if src.Enrich.Reviews != "" {
		dst.Enrich.Reviews = src.Enrich.Reviews
	}
	if src.Enrich.Rate != 0 {
		dst.Enrich.Rate = src.Enrich.Rate
	}
	if src.Enrich.MaxURLs != 0 {
		dst.Enrich.MaxURLs = src.Enrich.MaxURLs
	}
	if src.Enrich.UserAgent != "" {
		dst.Enrich.UserAgent = src.Enrich.UserAgent
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.MaxAge != 0 {
		dst.Cache.MaxAge = src.Cache.MaxAge
	}
}

func boolPtr(b bool) *bool {
	return &b
}
