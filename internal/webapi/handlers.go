package webapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/query"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store DataStore
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(store DataStore) *Handlers {
	return &Handlers{store: store}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// snapshot writes a 503 and returns false when the data file is unavailable.
func (h *Handlers) snapshot(w http.ResponseWriter) (*dataset.Dataset, bool) {
	ds, err := h.store.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrUnavailable.Error())
		return nil, false
	}
	return ds, true
}

// HandleSummary returns collection counts and score aggregates.
func (h *Handlers) HandleSummary(w http.ResponseWriter, _ *http.Request) {
	ds, ok := h.snapshot(w)
	if !ok {
		return
	}

	resp := SummaryResponse{Counts: make(map[dataset.Category]int)}
	for _, c := range dataset.Categories() {
		resp.Counts[c] = ds.Count(c)
	}

	scored := query.SortEBikesByScore(ds.EBikes(), ds)
	total := 0.0
	for _, s := range scored {
		if s.Score > 0 {
			resp.Rated++
			total += s.Score
		}
	}
	if resp.Rated > 0 {
		resp.AvgScore = scoring.Round(total / float64(resp.Rated))
		resp.Best = &EBikeResponse{EBike: scored[0].EBike, Score: scored[0].Score}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleEBikes lists the e-bikes. Query params: q (name search), sort
// ("punteggio" for score order, document order otherwise).
func (h *Handlers) HandleEBikes(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot(w)
	if !ok {
		return
	}

	bikes := query.Filter(ds.EBikes(), r.URL.Query().Get("q"))
	resp := make([]EBikeResponse, 0, len(bikes))
	if r.URL.Query().Get("sort") == "punteggio" {
		for _, s := range query.SortEBikesByScore(bikes, ds) {
			resp = append(resp, EBikeResponse{EBike: s.EBike, Score: s.Score})
		}
	} else {
		for _, b := range bikes {
			resp = append(resp, EBikeResponse{EBike: b, Score: scoring.Compute(b, ds)})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleEBikeDetail returns one e-bike with its score breakdown.
func (h *Handlers) HandleEBikeDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "e-bike id is required")
		return
	}
	ds, ok := h.snapshot(w)
	if !ok {
		return
	}

	b, err := ds.EBike(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	bd := scoring.Explain(b, ds)
	detail := EBikeDetail{
		EBikeResponse: EBikeResponse{EBike: b, Score: bd.Score},
		Breakdown:     bd,
		Components:    make(map[string]*ComponentResponse),
	}
	for _, p := range bd.Parts {
		if p.Component != nil {
			detail.Components[string(p.Role)] = componentResponse(p.Component)
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleComponents lists one component collection. Query params: q (name
// search), marca (brand), sort (posizione, valutazione, peso_kg,
// coppia_max_nm).
func (h *Handlers) HandleComponents(w http.ResponseWriter, r *http.Request) {
	cat, err := componentCategory(r.PathValue("category"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	key, err := query.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ds, ok := h.snapshot(w)
	if !ok {
		return
	}

	q := r.URL.Query()
	items := query.Filter(ds.Components(cat), q.Get("q"))
	items = query.Sort(query.FilterBrand(items, q.Get("marca")), key)

	resp := make([]*ComponentResponse, 0, len(items))
	for _, c := range items {
		resp = append(resp, componentResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleComponentDetail returns one component.
func (h *Handlers) HandleComponentDetail(w http.ResponseWriter, r *http.Request) {
	cat, err := componentCategory(r.PathValue("category"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	ds, ok := h.snapshot(w)
	if !ok {
		return
	}
	c, err := ds.Component(cat, r.PathValue("id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, componentResponse(c))
}

func componentCategory(s string) (dataset.Category, error) {
	c, err := dataset.ParseCategory(s)
	if err != nil {
		return "", err
	}
	if !c.IsComponent() {
		return "", dataset.ErrUnknownCategory
	}
	return c, nil
}

func componentResponse(c *dataset.Component) *ComponentResponse {
	return &ComponentResponse{Component: c, Category: c.Category, Name: c.Name()}
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dataset.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// HandleData serves the raw data file.
func (h *Handlers) HandleData(w http.ResponseWriter, _ *http.Request) {
	data, err := h.store.Raw()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrUnavailable.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data) //nolint:errcheck
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, store DataStore) {
	h := NewHandlers(store)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/summary", h.HandleSummary)
	mux.HandleFunc("GET /api/ebikes", h.HandleEBikes)
	mux.HandleFunc("GET /api/ebikes/{id}", h.HandleEBikeDetail)
	mux.HandleFunc("GET /api/components/{category}", h.HandleComponents)
	mux.HandleFunc("GET /api/components/{category}/{id}", h.HandleComponentDetail)
	mux.HandleFunc("GET /ebike-data.json", h.HandleData)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
