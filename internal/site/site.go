// Package site renders the pages of the ratings site from a dataset
// snapshot. Every page recomputes scores and tables from the full dataset.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	msgEBikeNotFound     = "E-Bike non trovata"
	msgComponentNotFound = "Componente non trovato"
	msgInvalidParams     = "Parametri non validi o mancanti per caricare il componente."
	msgUnknownCategory   = "Configurazione o dati non trovati per questa categoria."
	msgInvalidColumns    = "Selezione di colonne non valida."
	msgUnavailable       = "Dati non disponibili. Riprova tra qualche istante."
	msgNoAnalysis        = "Nessuna analisi dettagliata disponibile per questo modello."
)

type navItem struct {
	ID     PageID
	Label  string
	Href   string
	Active bool
}

var navPages = []struct {
	id    PageID
	label string
}{
	{PageHome, "Classifiche"},
	{PageComponents, "Componenti"},
	{PageComparison, "Confronto"},
}

// page is the data every template receives.
type page struct {
	Title       string
	Description string
	Links       Linker
	Nav         []navItem
	Style       template.CSS
	Body        any
}

type messageBody struct {
	Message string
}

// Site renders pages. It is safe for concurrent use.
type Site struct {
	tmpl map[string]*template.Template
	md   goldmark.Markdown
}

// New parses the page templates.
func New() (*Site, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	s := &Site{
		tmpl: make(map[string]*template.Template),
		md:   newMarkdown(),
	}
	for _, name := range []string{"home", "components", "comparison", "ebike", "component"} {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		s.tmpl[name] = t
	}
	msg, err := template.Must(base.Clone()).Parse(`{{define "content"}}{{template "message" .}}{{end}}`)
	if err != nil {
		return nil, fmt.Errorf("parsing message template: %w", err)
	}
	s.tmpl["message"] = msg
	return s, nil
}

func nav(l Linker, active PageID) []navItem {
	items := make([]navItem, 0, len(navPages))
	for _, p := range navPages {
		items = append(items, navItem{ID: p.id, Label: p.label, Href: l.Page(p.id), Active: p.id == active})
	}
	return items
}

// execute renders into a buffer first so a template failure never leaves
// a partial page on w.
func (s *Site) execute(w io.Writer, name string, active PageID, p page) error {
	p.Nav = nav(p.Links, active)
	var buf bytes.Buffer
	if err := s.tmpl[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("rendering %s page: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (s *Site) message(w io.Writer, l Linker, active PageID, status int, msg string) (int, error) {
	err := s.execute(w, "message", active, page{
		Title: msg,
		Links: l,
		Body:  messageBody{Message: msg},
	})
	return status, err
}

// Unavailable renders the empty state shown when the data file cannot be
// loaded.
func (s *Site) Unavailable(w io.Writer, l Linker, active PageID) (int, error) {
	return s.message(w, l, active, http.StatusServiceUnavailable, msgUnavailable)
}

// markdown renders analysis text. Raw HTML in the source is dropped.
func (s *Site) markdown(text string) (template.HTML, error) {
	if text == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering analysis: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes text and omits raw HTML
}
