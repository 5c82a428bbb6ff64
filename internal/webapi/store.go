package webapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ebikeratings/ebikerank/internal/dataset"
)

// ErrUnavailable is returned while the data file cannot be loaded.
var ErrUnavailable = errors.New("data unavailable")

// DataStore provides the current dataset snapshot.
type DataStore interface {
	// Snapshot returns the dataset as last loaded. The returned value is
	// never mutated by the store.
	Snapshot() (*dataset.Dataset, error)
	// Raw returns the data file bytes the snapshot was decoded from.
	Raw() ([]byte, error)
}

// FileStore serves the data file at a fixed path. The file is read on first
// use and again on Reload, or whenever Watch sees it change.
type FileStore struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration
	readFile func(string) ([]byte, error)

	mu      sync.RWMutex
	ds      *dataset.Dataset
	raw     []byte
	loaded  bool
	loadErr error
	// started numbers loads in the order they began reading; applied is
	// the number of the load the snapshot came from.
	started uint64
	applied uint64
}

// NewFileStore creates a FileStore for the data file at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		path:     path,
		logger:   logger,
		debounce: 200 * time.Millisecond,
		readFile: os.ReadFile,
	}
}

// Path returns the data file path.
func (fs *FileStore) Path() string {
	return fs.path
}

// load reads and decodes the data file, then swaps the snapshot. A failed
// load clears the snapshot so that no view renders stale data as current.
// A load that finishes after a later one has been applied is discarded.
func (fs *FileStore) load() error {
	fs.mu.Lock()
	fs.started++
	seq := fs.started
	fs.mu.Unlock()

	data, err := fs.readFile(fs.path)
	var ds *dataset.Dataset
	if err != nil {
		err = fmt.Errorf("reading data file: %w", err)
	} else if ds, err = dataset.Load(bytes.NewReader(data)); err != nil {
		err = fmt.Errorf("%s: %w", fs.path, err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if seq < fs.applied {
		fs.logger.Debug("discarding superseded data load", "path", fs.path)
		return err
	}
	fs.applied = seq
	fs.loaded = true
	if err != nil {
		fs.ds, fs.raw, fs.loadErr = nil, nil, err
		return err
	}
	fs.ds, fs.raw, fs.loadErr = ds, data, nil
	return nil
}

// ensureLoaded loads data if not already loaded.
func (fs *FileStore) ensureLoaded() {
	fs.mu.RLock()
	if fs.loaded {
		fs.mu.RUnlock()
		return
	}
	fs.mu.RUnlock()
	if err := fs.load(); err != nil {
		fs.logger.Error("loading data file", "path", fs.path, "error", err)
	}
}

// Reload forces a fresh read of the data file.
func (fs *FileStore) Reload() error {
	return fs.load()
}

// Snapshot returns the current dataset.
func (fs *FileStore) Snapshot() (*dataset.Dataset, error) {
	fs.ensureLoaded()

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.loadErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, fs.loadErr)
	}
	return fs.ds, nil
}

// Raw returns the bytes of the current data file.
func (fs *FileStore) Raw() ([]byte, error) {
	fs.ensureLoaded()

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.loadErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, fs.loadErr)
	}
	return fs.raw, nil
}

// Watch reloads the store whenever the data file changes, until ctx is
// cancelled. The parent directory is watched so that editors replacing the
// file by rename are picked up.
func (fs *FileStore) Watch(ctx context.Context) error {
	w, err := fs.newWatcher()
	if err != nil {
		return err
	}
	return fs.watch(ctx, w)
}

func (fs *FileStore) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	dir := filepath.Dir(fs.path)
	if err := w.Add(dir); err != nil {
		w.Close() //nolint:errcheck
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return w, nil
}

func (fs *FileStore) watch(ctx context.Context, w *fsnotify.Watcher) error {
	defer w.Close() //nolint:errcheck

	target := filepath.Clean(fs.path)
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			// Saves often arrive as several events; reload once they settle.
			pending = time.After(fs.debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fs.logger.Warn("data file watcher", "error", err)

		case <-pending:
			pending = nil
			if err := fs.Reload(); err != nil {
				fs.logger.Error("reloading data file", "path", fs.path, "error", err)
				continue
			}
			fs.logger.Info("data file reloaded", "path", fs.path)
		}
	}
}

// Ensure FileStore satisfies DataStore.
var _ DataStore = (*FileStore)(nil)
