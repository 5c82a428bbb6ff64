// Package enrich fills in missing component ratings by scraping scores from
// review pages.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

// NotAvailable marks a rating that could not be found.
const NotAvailable = "N/A"

// DefaultMaxURLs is how many review pages are scraped per item.
const DefaultMaxURLs = 3

// PageFetcher downloads review pages. *Fetcher satisfies it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Enricher rates the unrated items of one collection.
type Enricher struct {
	Source  Source
	Fetcher PageFetcher
	// MaxURLs bounds the review pages scraped per item. Zero means 3.
	MaxURLs int
	// Concurrency bounds items processed in parallel. Zero means 4.
	Concurrency int
	Logger      *slog.Logger
}

// Outcome is the result for one item.
type Outcome struct {
	ID     string
	Name   string
	Rating float64
	// Found is false when the rating was set to "N/A".
	Found bool
	URLs  int
}

// Report summarises a run.
type Report struct {
	Category dataset.Category
	Total    int
	Skipped  int
	Outcomes []Outcome
}

// Rated counts the items that received a numeric rating.
func (r *Report) Rated() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Found {
			n++
		}
	}
	return n
}

// Query is the review search for an item.
func Query(brand, model string) string {
	return fmt.Sprintf("%s %s review", brand, model)
}

// Run rates every item of category c that has no positive rating, writing
// the result into doc. Items with a rating are left untouched.
func (e *Enricher) Run(ctx context.Context, doc *dataset.Document, c dataset.Category) (*Report, error) {
	if !c.IsComponent() {
		return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownCategory, c)
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := e.Concurrency
	if limit <= 0 {
		limit = 4
	}

	recs := doc.Records(c)
	for i, rec := range recs {
		if rec == nil {
			return nil, fmt.Errorf("%s[%d]: null record", c, i)
		}
	}
	rep := &Report{Category: c, Total: len(recs)}

	results := make([]*Outcome, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, rec := range recs {
		if v, ok := rec.Get("valutazione"); ok {
			if r, ok := dataset.ParseNumber(v); ok && r > 0 {
				rep.Skipped++
				continue
			}
		}
		g.Go(func() error {
			out, err := e.rate(gctx, rec, logger)
			if err != nil {
				return err
			}
			results[i] = &out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, out := range results {
		if out != nil {
			rep.Outcomes = append(rep.Outcomes, *out)
		}
	}
	return rep, nil
}

func (e *Enricher) rate(ctx context.Context, rec *dataset.Record, logger *slog.Logger) (Outcome, error) {
	brand, model := str(rec, "marca"), str(rec, "modello")
	out := Outcome{ID: str(rec, "id"), Name: strings.TrimSpace(brand + " " + model)}

	urls, err := e.Source.Search(ctx, Query(brand, model))
	if err != nil {
		return out, fmt.Errorf("searching reviews for %s: %w", out.Name, err)
	}
	limit := e.MaxURLs
	if limit <= 0 {
		limit = DefaultMaxURLs
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}
	out.URLs = len(urls)

	var sum float64
	var n int
	for _, u := range urls {
		body, err := e.Fetcher.Fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			continue
		}
		v, ok, err := ScrapeScore(strings.NewReader(body))
		if err != nil || !ok {
			continue
		}
		logger.Debug("found score", "item", out.Name, "url", u, "score", v)
		sum += v
		n++
	}

	if n == 0 {
		rec.Set("valutazione", NotAvailable)
		logger.Info("no rating found", "item", out.Name, "urls", out.URLs)
		return out, nil
	}
	out.Rating = scoring.Round(sum / float64(n))
	out.Found = true
	rec.Set("valutazione", out.Rating)
	logger.Info("rating found", "item", out.Name, "rating", out.Rating, "pages", n)
	return out, nil
}

func str(rec *dataset.Record, key string) string {
	v, _ := rec.Get(key)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
