package webserver

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/site"
	"github.com/ebikeratings/ebikerank/internal/webapi"
	"github.com/ebikeratings/ebikerank/web"
)

// registerRoutes sets up the pages, static assets and the JSON API.
func registerRoutes(mux *http.ServeMux, store webapi.DataStore, logger *slog.Logger) error {
	s, err := site.New()
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}
	p := &pages{site: s, store: store, logger: logger}

	mux.Handle("GET /{$}", p.handle(site.PageHome, func(w io.Writer, ds *dataset.Dataset, _ *http.Request) (int, error) {
		return s.Home(w, site.LiveLinks{}, ds)
	}))
	mux.Handle("GET /componenti", p.handle(site.PageComponents, func(w io.Writer, ds *dataset.Dataset, r *http.Request) (int, error) {
		q := r.URL.Query()
		return s.Components(w, site.LiveLinks{}, ds, site.ComponentsQuery{
			Term:  q.Get("q"),
			Brand: q.Get("marca"),
			Sort:  q.Get("sort"),
		})
	}))
	mux.Handle("GET /confronto", p.handle(site.PageComparison, func(w io.Writer, ds *dataset.Dataset, r *http.Request) (int, error) {
		q := r.URL.Query()
		return s.Comparison(w, site.LiveLinks{}, ds, site.ComparisonQuery{
			Category: q.Get("category"),
			Hide:     q.Get("hide"),
			Toggled:  q.Has("toggled"),
			Show:     q["show"],
		})
	}))
	mux.Handle("GET /classifiche/scheda-ebike", p.handle(site.PageDetail, func(w io.Writer, ds *dataset.Dataset, r *http.Request) (int, error) {
		return s.EBikeDetail(w, site.LiveLinks{}, ds, r.URL.Query().Get("id"))
	}))
	mux.Handle("GET /classifiche/scheda-componente", p.handle(site.PageDetail, func(w io.Writer, ds *dataset.Dataset, r *http.Request) (int, error) {
		q := r.URL.Query()
		return s.ComponentDetail(w, site.LiveLinks{}, ds, q.Get("type"), q.Get("id"))
	}))

	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return fmt.Errorf("failed to create sub filesystem for web/static: %w", err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	webapi.RegisterRoutes(mux, store)
	return nil
}

type pageFunc func(w io.Writer, ds *dataset.Dataset, r *http.Request) (int, error)

// pages renders site pages from the store's current snapshot.
type pages struct {
	site   *site.Site
	store  webapi.DataStore
	logger *slog.Logger
}

func (p *pages) handle(active site.PageID, render pageFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		var status int

		ds, err := p.store.Snapshot()
		if err != nil {
			p.logger.Error("data file unavailable", "path", r.URL.Path, "error", err)
			status, err = p.site.Unavailable(&buf, site.LiveLinks{}, active)
		} else {
			status, err = render(&buf, ds, r)
		}
		if err != nil {
			p.logger.Error("rendering page", "path", r.URL.Path, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write(buf.Bytes()) //nolint:errcheck
	})
}
