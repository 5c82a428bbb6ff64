package webapi

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/dataset/datasettest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFileStore_Snapshot(t *testing.T) {
	path := datasettest.WriteFile(t, t.TempDir())
	fs := NewFileStore(path, quietLogger())

	ds, err := fs.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Count(dataset.EBikes) != 4 {
		t.Errorf("expected 4 e-bikes, got %d", ds.Count(dataset.EBikes))
	}

	raw, err := fs.Raw()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != datasettest.SampleJSON {
		t.Error("expected raw bytes to match the file")
	}
}

func TestFileStore_MissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), quietLogger())

	if _, err := fs.Snapshot(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := fs.Raw(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFileStore_ReloadReplacesSnapshot(t *testing.T) {
	path := datasettest.WriteFile(t, t.TempDir())
	fs := NewFileStore(path, quietLogger())

	before, err := fs.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"e_bikes": [{"id": "EB100", "modello": "Nuova"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	after, err := fs.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.Count(dataset.EBikes) != 1 {
		t.Errorf("expected 1 e-bike after reload, got %d", after.Count(dataset.EBikes))
	}
	// Earlier snapshots are never touched.
	if before.Count(dataset.EBikes) != 4 {
		t.Errorf("old snapshot changed: %d e-bikes", before.Count(dataset.EBikes))
	}
}

func TestFileStore_FirstLoadDoesNotOverwriteReload(t *testing.T) {
	path := datasettest.WriteFile(t, t.TempDir())
	fs := NewFileStore(path, quietLogger())

	reading := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	fs.readFile = func(name string) ([]byte, error) {
		data, err := os.ReadFile(name)
		if calls.Add(1) == 1 {
			close(reading)
			<-release
		}
		return data, err
	}

	done := make(chan error, 1)
	go func() {
		_, err := fs.Snapshot()
		done <- err
	}()
	<-reading

	// The first load holds the old bytes while the file changes and a
	// reload completes.
	if err := os.WriteFile(path, []byte(`{"e_bikes": [{"id": "EB100", "modello": "Nuova"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ds, err := fs.Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Count(dataset.EBikes) != 1 {
		t.Errorf("expected the reloaded snapshot with 1 e-bike, got %d", ds.Count(dataset.EBikes))
	}
	raw, err := fs.Raw()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) == datasettest.SampleJSON {
		t.Error("stale bytes replaced the reloaded file")
	}
}

func TestFileStore_BrokenReload(t *testing.T) {
	path := datasettest.WriteFile(t, t.TempDir())
	fs := NewFileStore(path, quietLogger())
	if _, err := fs.Snapshot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"e_bikes": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fs.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if _, err := fs.Snapshot(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable after a broken reload, got %v", err)
	}
}

func TestFileStore_Watch(t *testing.T) {
	path := datasettest.WriteFile(t, t.TempDir())
	fs := NewFileStore(path, quietLogger())
	fs.debounce = 10 * time.Millisecond
	if _, err := fs.Snapshot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, err := fs.newWatcher()
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fs.watch(ctx, w) }()

	if err := os.WriteFile(path, []byte(`{"motori": [{"id": "MO100", "marca": "Bafang", "modello": "M820"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		ds, err := fs.Snapshot()
		if err == nil && ds.Count(dataset.Motors) == 1 && ds.Count(dataset.EBikes) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for reload")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
