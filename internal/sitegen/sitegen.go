// Package sitegen exports the site as static files: one .html file per page
// and per detail record, plus the static assets and the data file.
package sitegen

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/site"
)

// DefaultAssetPatterns selects every file under static/.
var DefaultAssetPatterns = []string{"static/**"}

// Options configures an export.
type Options struct {
	// Assets is the filesystem static files are copied from.
	Assets fs.FS
	// AssetPatterns are doublestar globs matched against Assets.
	AssetPatterns []string
	// Data is written as ebike-data.json when non-nil.
	Data []byte
	// Concurrency bounds parallel page writes. Zero means 8.
	Concurrency int
	Logger      *slog.Logger
}

// Result lists the files written, relative to the output directory, sorted.
type Result struct {
	Files []string
}

type job struct {
	rel    string
	render func(w io.Writer, l site.Linker) (int, error)
}

// Build renders every page of ds into outDir.
func Build(s *site.Site, ds *dataset.Dataset, outDir string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.AssetPatterns == nil {
		opts.AssetPatterns = DefaultAssetPatterns
	}
	if err := os.MkdirAll(filepath.Join(outDir, site.DetailDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	jobs := pageJobs(s, ds)
	files := make([]string, 0, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)
	for _, j := range jobs {
		files = append(files, j.rel)
		g.Go(func() error {
			var buf bytes.Buffer
			if _, err := j.render(&buf, site.StaticLinksFor(j.rel)); err != nil {
				return fmt.Errorf("rendering %s: %w", j.rel, err)
			}
			return writeFile(outDir, j.rel, buf.Bytes())
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Assets != nil {
		assets, err := copyAssets(opts.Assets, opts.AssetPatterns, outDir)
		if err != nil {
			return nil, err
		}
		files = append(files, assets...)
	}
	if opts.Data != nil {
		rel := path.Base(site.LiveLinks{}.Data())
		if err := writeFile(outDir, rel, opts.Data); err != nil {
			return nil, err
		}
		files = append(files, rel)
	}

	slices.Sort(files)
	opts.Logger.Info("static site written", "dir", outDir, "files", len(files))
	return &Result{Files: files}, nil
}

// pageJobs lists every page of the export. Component and comparison pages
// use their default controls; the search box filters in the browser.
func pageJobs(s *site.Site, ds *dataset.Dataset) []job {
	jobs := []job{
		{string(site.PageHome) + ".html", func(w io.Writer, l site.Linker) (int, error) {
			return s.Home(w, l, ds)
		}},
		{string(site.PageComponents) + ".html", func(w io.Writer, l site.Linker) (int, error) {
			return s.Components(w, l, ds, site.ComponentsQuery{})
		}},
	}
	for _, c := range dataset.Categories() {
		jobs = append(jobs, job{site.ComparisonFile(c), func(w io.Writer, l site.Linker) (int, error) {
			return s.Comparison(w, l, ds, site.ComparisonQuery{Category: string(c)})
		}})
	}
	for _, b := range ds.EBikes() {
		jobs = append(jobs, job{site.EBikeFile(b.ID), func(w io.Writer, l site.Linker) (int, error) {
			return s.EBikeDetail(w, l, ds, b.ID)
		}})
	}
	for _, c := range dataset.ComponentCategories() {
		for _, item := range ds.Components(c) {
			jobs = append(jobs, job{site.ComponentFile(c, item.ID), func(w io.Writer, l site.Linker) (int, error) {
				return s.ComponentDetail(w, l, ds, string(c), item.ID)
			}})
		}
	}
	return jobs
}

func copyAssets(fsys fs.FS, patterns []string, outDir string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching assets %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			data, err := fs.ReadFile(fsys, m)
			if err != nil {
				return nil, fmt.Errorf("reading asset %s: %w", m, err)
			}
			if err := writeFile(outDir, m, data); err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func writeFile(outDir, rel string, data []byte) error {
	p := filepath.Join(outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}
