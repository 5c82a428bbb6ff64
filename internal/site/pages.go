package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/query"
	"github.com/ebikeratings/ebikerank/internal/render"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

// Home renders the e-bike rankings page.
func (s *Site) Home(w io.Writer, l Linker, ds *dataset.Dataset) (int, error) {
	table, err := render.HTML(RankingColumns(ds, l), ds.EBikes())
	if err != nil {
		return 0, err
	}
	err = s.execute(w, "home", PageHome, page{
		Title:       "Classifiche E-Bike",
		Description: "Classifiche delle e-bike con punteggio composto dalle valutazioni di motore, batteria, freni e sospensioni.",
		Links:       l,
		Body:        struct{ Table template.HTML }{table},
	})
	return http.StatusOK, err
}

// ComponentsQuery holds the components page controls.
type ComponentsQuery struct {
	// Term filters every collection by "marca modello".
	Term string
	// Brand and Sort apply to the motors table.
	Brand string
	Sort  string
}

type option struct {
	Value    string
	Label    string
	Href     string
	Selected bool
}

type componentSection struct {
	Category dataset.Category
	Label    string
	Table    template.HTML
	Brands   []option
	Sorts    []option
}

// Components renders the component rankings with search, brand filter and
// sort applied.
func (s *Site) Components(w io.Writer, l Linker, ds *dataset.Dataset, q ComponentsQuery) (int, error) {
	key, err := query.ParseSortKey(q.Sort)
	if err != nil {
		key = query.ByPosition
	}
	brand := strings.TrimSpace(q.Brand)
	if brand == "" {
		brand = query.AllBrands
	}

	body := struct {
		Term     string
		Brand    string
		Sort     string
		Announce string
		Sections []componentSection
	}{Term: q.Term, Brand: brand, Sort: string(key)}

	total := 0
	for _, c := range dataset.ComponentCategories() {
		cols, err := ComponentColumns(c, l)
		if err != nil {
			return 0, err
		}
		all := ds.Components(c)
		items := query.Filter(all, q.Term)

		sec := componentSection{Category: c, Label: c.Label()}
		if c == dataset.Motors {
			items = query.Sort(query.FilterBrand(items, brand), key)
			for _, b := range query.Brands(all) {
				sec.Brands = append(sec.Brands, option{Value: b, Label: b, Selected: b == brand})
			}
			for _, k := range query.SortKeys() {
				sec.Sorts = append(sec.Sorts, option{Value: string(k), Label: k.Label(), Selected: k == key})
			}
		}
		total += len(items)

		if sec.Table, err = render.HTML(cols, items); err != nil {
			return 0, err
		}
		body.Sections = append(body.Sections, sec)
	}
	if strings.TrimSpace(q.Term) != "" {
		body.Announce = ResultsAnnouncement(total)
	}

	err = s.execute(w, "components", PageComponents, page{
		Title:       "Classifiche Componenti",
		Description: "Classifiche di motori, batterie, freni e sospensioni per e-bike.",
		Links:       l,
		Body:        body,
	})
	return http.StatusOK, err
}

// ResultsAnnouncement is the status text read out after a search.
func ResultsAnnouncement(n int) string {
	return message.NewPrinter(language.Italian).Sprintf("%d risultati trovati", n)
}

// ComparisonQuery holds the comparison page controls.
type ComparisonQuery struct {
	Category string
	// Hide lists hidden column indices, e.g. "2,4".
	Hide string
	// Toggled is set when the column form was submitted; Show then lists
	// the checked columns and Hide is ignored.
	Toggled bool
	Show    []string
}

// Comparison renders the side-by-side table of one collection with its
// column toggles.
func (s *Site) Comparison(w io.Writer, l Linker, ds *dataset.Dataset, q ComparisonQuery) (int, error) {
	cat := dataset.EBikes
	if strings.TrimSpace(q.Category) != "" {
		c, err := dataset.ParseCategory(q.Category)
		if err != nil {
			return s.message(w, l, PageComparison, http.StatusBadRequest, msgUnknownCategory)
		}
		cat = c
	}
	cmp, err := ComparisonColumns(cat)
	if err != nil {
		return s.message(w, l, PageComparison, http.StatusBadRequest, msgUnknownCategory)
	}
	var vis *render.Visibility
	if q.Toggled {
		vis, err = render.ParseShown(len(cmp.Headers), q.Show)
	} else {
		vis, err = render.ParseVisibility(len(cmp.Headers), q.Hide)
	}
	if err != nil {
		return s.message(w, l, PageComparison, http.StatusBadRequest, msgInvalidColumns)
	}

	var table, toggles bytes.Buffer
	if err := cmp.Render(&table, ds, l); err != nil {
		return 0, err
	}
	if err := vis.WriteToggles(&toggles, ComparisonTableID, cmp.Headers); err != nil {
		return 0, err
	}

	var cats []option
	for _, c := range dataset.Categories() {
		cats = append(cats, option{Value: string(c), Label: c.Label(), Href: l.Comparison(c), Selected: c == cat})
	}

	err = s.execute(w, "comparison", PageComparison, page{
		Title:       "Confronto " + cat.Label(),
		Description: "Confronta le specifiche e le valutazioni: " + strings.ToLower(cat.Label()) + ".",
		Links:       l,
		Style:       vis.Stylesheet(ComparisonTableID),
		Body: struct {
			Label      string
			Category   string
			Categories []option
			Toggles    template.HTML
			Table      template.HTML
		}{
			Label:      cat.Label(),
			Category:   string(cat),
			Categories: cats,
			Toggles:    template.HTML(toggles.String()), //nolint:gosec // produced by html/template
			Table:      template.HTML(table.String()),   //nolint:gosec // produced by html/template
		},
	})
	return http.StatusOK, err
}

type partView struct {
	Role   dataset.Role
	Name   string
	Href   string
	Rating string
}

// EBikeDetail renders one e-bike with its components and analysis.
func (s *Site) EBikeDetail(w io.Writer, l Linker, ds *dataset.Dataset, id string) (int, error) {
	if strings.TrimSpace(id) == "" {
		return s.message(w, l, PageDetail, http.StatusBadRequest, msgEBikeNotFound)
	}
	b, err := ds.EBike(id)
	if errors.Is(err, dataset.ErrNotFound) {
		return s.message(w, l, PageDetail, http.StatusNotFound, msgEBikeNotFound)
	}
	if err != nil {
		return 0, err
	}

	bd := scoring.Explain(b, ds)
	var parts []partView
	for _, p := range bd.Parts {
		if p.Component == nil {
			continue
		}
		href := "#"
		if c, ok := dataset.CategoryForRole(string(p.Role)); ok {
			href = l.Component(c, p.Component.ID)
		}
		pv := partView{Role: p.Role, Name: p.Component.Name(), Href: href}
		if p.Rated {
			pv.Rating = p.Component.Rating.String()
		}
		parts = append(parts, pv)
	}

	analysis, err := s.markdown(b.Analysis)
	if err != nil {
		return 0, err
	}
	if analysis == "" {
		analysis = template.HTML("<p>" + template.HTMLEscapeString(msgNoAnalysis) + "</p>") //nolint:gosec // constant text
	}

	var score, year string
	if bd.Score > 0 {
		score = fmt.Sprintf("%.1f", bd.Score)
	}
	if b.Year != nil {
		year = fmt.Sprint(*b.Year)
	}
	desc := fmt.Sprintf("Scopri la valutazione dettagliata e i componenti della %s. Punteggio finale: %.1f, basato su test di motore, batteria e freni.", b.Model, bd.Score)

	err = s.execute(w, "ebike", PageDetail, page{
		Title:       b.Model + " - Recensione e Punteggio",
		Description: desc,
		Links:       l,
		Body: struct {
			Name     string
			Class    string
			Year     string
			Score    string
			Parts    []partView
			Analysis template.HTML
		}{b.Name(), b.Class, year, score, parts, analysis},
	})
	return http.StatusOK, err
}

// ComponentDetail renders one component with its spec list.
func (s *Site) ComponentDetail(w io.Writer, l Linker, ds *dataset.Dataset, typ, id string) (int, error) {
	if strings.TrimSpace(typ) == "" || strings.TrimSpace(id) == "" {
		return s.message(w, l, PageDetail, http.StatusBadRequest, msgInvalidParams)
	}
	cat, err := dataset.ParseCategory(typ)
	if err != nil || !cat.IsComponent() {
		return s.message(w, l, PageDetail, http.StatusBadRequest, msgInvalidParams)
	}
	c, err := ds.Component(cat, id)
	if errors.Is(err, dataset.ErrNotFound) {
		return s.message(w, l, PageDetail, http.StatusNotFound, msgComponentNotFound)
	}
	if err != nil {
		return 0, err
	}

	analysis, err := s.markdown(c.Text())
	if err != nil {
		return 0, err
	}
	var source string
	if render.IsSafeURL(c.SourceURL) {
		source = strings.TrimSpace(c.SourceURL)
	}
	var rating string
	if c.Rating.Rated() {
		rating = c.Rating.String()
	}

	err = s.execute(w, "component", PageDetail, page{
		Title:       c.Name() + " - Dettagli e Specifiche",
		Description: "Scopri le specifiche tecniche dettagliate per il componente " + c.Name() + ".",
		Links:       l,
		Body: struct {
			Label    string
			Name     string
			Rating   string
			Specs    []Spec
			Source   string
			Analysis template.HTML
		}{cat.Label(), c.Name(), rating, Specs(c.Fields), source, analysis},
	})
	return http.StatusOK, err
}
