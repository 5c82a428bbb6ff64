// Package cache stores fetched review pages on disk so that repeated
// enrichment runs do not hit the same sites again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one cached page.
type Entry struct {
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Body      string    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache is a directory of JSON entries keyed by URL hash. A Cache with an
// empty directory is disabled: Get always misses and Put does nothing.
type Cache struct {
	dir string
	// MaxAge expires entries older than it. Zero keeps entries forever.
	MaxAge time.Duration

	mu  sync.Mutex
	now func() time.Time
}

// New creates a new cache instance with the specified directory
func New(dir string) *Cache {
	return &Cache{dir: dir, now: time.Now}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key returns the cache key of a URL. Surrounding whitespace and a
// trailing slash do not change the key.
func Key(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get retrieves a cached page if it exists and has not expired.
func (c *Cache) Get(key string) (*Entry, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.cachePath(key))
	if err != nil {
		// Cache miss
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Invalid cache entry, treat as miss
		return nil, false
	}
	if c.MaxAge > 0 && c.now().Sub(e.FetchedAt) > c.MaxAge {
		return nil, false
	}
	return &e, true
}

// Put stores a page in the cache.
func (c *Cache) Put(key string, e *Entry) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = c.now()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	if err := os.WriteFile(c.cachePath(key), data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes all cached pages.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	// Refuse to delete anything that does not look like a cache directory.
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if filepath.Ext(entry.Name()) != ".json" {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

// cachePath returns the file path for a cache key
func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.dir, key+".json")
}
