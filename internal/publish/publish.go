// Package publish uploads an exported site to blob storage.
package publish

//go:generate go tool mockgen -source=publish.go -destination=mocks_test.go -package=publish

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Uploader stores one file under name.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) error
}

// Options configures a publish run.
type Options struct {
	// Prefix is prepended to every blob name.
	Prefix string
	// Patterns selects files relative to the site directory. Empty means
	// every file.
	Patterns []string
	// Concurrency bounds parallel uploads. Zero means 4.
	Concurrency int
	// DryRun lists the files without uploading.
	DryRun bool
	Logger *slog.Logger
}

// File is one uploaded file.
type File struct {
	Name        string
	ContentType string
	Size        int
}

// Report lists what was uploaded, sorted by name.
type Report struct {
	Files []File
}

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
	".txt":  "text/plain; charset=utf-8",
	".xml":  "application/xml",
}

// ContentType returns the Content-Type stored with a file.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Publish uploads the files under dir.
func Publish(ctx context.Context, up Uploader, dir string, opts Options) (*Report, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"**"}
	}

	fsys := os.DirFS(dir)
	names, err := match(fsys, patterns)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no files to publish in %s", dir)
	}

	files := make([]File, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			data, err := fs.ReadFile(fsys, name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			f := File{Name: blobName(opts.Prefix, name), ContentType: ContentType(name), Size: len(data)}
			files[i] = f
			if opts.DryRun {
				return nil
			}
			if err := up.Upload(gctx, f.Name, data, f.ContentType); err != nil {
				return fmt.Errorf("uploading %s: %w", f.Name, err)
			}
			opts.Logger.Debug("uploaded", "name", f.Name, "bytes", f.Size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts.Logger.Info("site published", "files", len(files), "dry_run", opts.DryRun)
	return &Report{Files: files}, nil
}

func match(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, p := range patterns {
		matches, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				names = append(names, m)
			}
		}
	}
	slices.Sort(names)
	return names, nil
}

func blobName(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
