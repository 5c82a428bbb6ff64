package site

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/query"
	"github.com/ebikeratings/ebikerank/internal/render"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

func position(p *int) render.Cell {
	if p == nil {
		return render.Text("-")
	}
	return render.Text(strconv.Itoa(*p))
}

func rating(r dataset.Rating) render.Cell {
	return render.Score(r.Float())
}

func componentLink(l Linker, c *dataset.Component) render.Cell {
	return render.Cell{Text: c.Name(), Href: l.Component(c.Category, c.ID), Class: "model-name"}
}

// summaryText is "marca modello (rating)" for a resolved component.
func summaryText(c *dataset.Component) string {
	if !c.Rating.Rated() {
		return c.Name()
	}
	return c.Name() + " (" + c.Rating.String() + ")"
}

// RankingColumns is the e-bike rankings table of the home page.
func RankingColumns(ds *dataset.Dataset, l Linker) render.Table[*dataset.EBike] {
	return render.Table[*dataset.EBike]{
		ID:    "ebike-rankings",
		Class: "rankings-table",
		Columns: []render.Column[*dataset.EBike]{
			{Header: "Pos.", Value: func(b *dataset.EBike) render.Cell { return position(b.Position) }},
			{Header: "Modello", Value: func(b *dataset.EBike) render.Cell {
				return render.Cell{Text: b.Model, Href: l.EBike(b.ID), Class: "model-name"}
			}},
			{Header: "Punteggio", Value: func(b *dataset.EBike) render.Cell {
				return render.Score(scoring.Compute(b, ds))
			}},
			{Header: "Componenti", Value: func(b *dataset.EBike) render.Cell {
				cell := render.Cell{Class: "model-summary"}
				for _, role := range dataset.Roles() {
					line := render.Line{Label: string(role), Text: render.Placeholder}
					if c, ok := ds.Resolve(b, role); ok {
						line.Text = summaryText(c)
					}
					cell.Lines = append(cell.Lines, line)
				}
				return cell
			}},
		},
	}
}

// ComponentColumns is the rankings table of one component collection on
// the components page.
func ComponentColumns(c dataset.Category, l Linker) (render.Table[*dataset.Component], error) {
	pos := render.Column[*dataset.Component]{Header: "Pos.", Value: func(c *dataset.Component) render.Cell { return position(c.Position) }}
	name := render.Column[*dataset.Component]{Header: "Modello", Value: func(c *dataset.Component) render.Cell { return componentLink(l, c) }}
	score := render.Column[*dataset.Component]{Header: "Valutazione", Value: func(c *dataset.Component) render.Cell { return rating(c.Rating) }}
	kind := render.Column[*dataset.Component]{Header: "Tipo", Value: func(c *dataset.Component) render.Cell { return render.Text(c.Type) }}

	t := render.Table[*dataset.Component]{ID: string(c) + "-rankings", Class: "rankings-table"}
	switch c {
	case dataset.Motors:
		t.Columns = []render.Column[*dataset.Component]{
			pos, name,
			{Header: "Coppia", Value: func(c *dataset.Component) render.Cell { return render.Number(c.Torque, " Nm") }},
			{Header: "Peso", Value: func(c *dataset.Component) render.Cell { return render.Number(c.Weight, " kg") }},
			{Header: "Potenza", Value: func(c *dataset.Component) render.Cell { return render.Number(c.PeakPower, " W") }},
			score,
		}
	case dataset.Batteries:
		t.Columns = []render.Column[*dataset.Component]{
			pos, name,
			{Header: "Capacità", Value: func(c *dataset.Component) render.Cell { return render.Number(c.Capacity, " Wh") }},
			score,
		}
	case dataset.Brakes:
		t.Columns = []render.Column[*dataset.Component]{
			pos, name, kind,
			{Header: "Pistoncini", Value: func(c *dataset.Component) render.Cell { return render.Number(c.Pistons, "") }},
			score,
		}
	case dataset.Suspensions:
		t.Columns = []render.Column[*dataset.Component]{
			pos, name, kind,
			{Header: "Escursione", Value: func(c *dataset.Component) render.Cell { return render.Number(c.Travel, " mm") }},
			score,
		}
	default:
		return t, fmt.Errorf("%w: %q", dataset.ErrUnknownCategory, c)
	}
	return t, nil
}

// ComparisonTableID is the element id of the comparison table.
const ComparisonTableID = "comparison-table"

// Comparison is the column configuration of the comparison page for one
// collection.
type Comparison struct {
	Category dataset.Category
	Headers  []string
	render   func(w io.Writer, ds *dataset.Dataset, l Linker) error
}

// Render writes the comparison table. E-bikes are ordered by composite
// score, highest first; components keep document order.
func (c *Comparison) Render(w io.Writer, ds *dataset.Dataset, l Linker) error {
	return c.render(w, ds, l)
}

// ComparisonColumns returns the comparison configuration for a collection.
func ComparisonColumns(c dataset.Category) (*Comparison, error) {
	if c == dataset.EBikes {
		return ebikeComparison(), nil
	}

	type spec struct {
		header string
		value  func(*dataset.Component) render.Cell
	}
	year := spec{"Anno Rilascio", func(c *dataset.Component) render.Cell { return render.Int(c.ReleaseYear) }}
	kind := spec{"Tipo", func(c *dataset.Component) render.Cell { return render.Text(c.Type) }}

	var specs []spec
	switch c {
	case dataset.Motors:
		specs = []spec{
			{"Coppia (Nm)", func(c *dataset.Component) render.Cell { return render.Number(c.Torque, "") }},
			{"Peso (kg)", func(c *dataset.Component) render.Cell { return render.Number(c.Weight, "") }},
			{"Potenza di Picco (W)", func(c *dataset.Component) render.Cell { return render.Number(c.PeakPower, "") }},
			year,
		}
	case dataset.Batteries:
		specs = []spec{
			{"Capacità (Wh)", func(c *dataset.Component) render.Cell { return render.Number(c.Capacity, "") }},
			year,
		}
	case dataset.Brakes:
		specs = []spec{kind, year}
	case dataset.Suspensions:
		specs = []spec{
			kind,
			{"Escursione (mm)", func(c *dataset.Component) render.Cell { return render.Number(c.Travel, "") }},
			year,
		}
	default:
		return nil, fmt.Errorf("%w: %q", dataset.ErrUnknownCategory, c)
	}

	headers := []string{"Modello", "Marca", "Valutazione"}
	for _, s := range specs {
		headers = append(headers, s.header)
	}

	return &Comparison{
		Category: c,
		Headers:  headers,
		render: func(w io.Writer, ds *dataset.Dataset, l Linker) error {
			t := render.Table[*dataset.Component]{
				ID:    ComparisonTableID,
				Class: "comparison-table",
				Columns: []render.Column[*dataset.Component]{
					{Header: headers[0], Value: func(item *dataset.Component) render.Cell {
						return render.Cell{Text: item.Name(), Href: l.Component(c, item.ID), Class: "fixed-column model-name"}
					}},
					{Header: headers[1], Value: func(item *dataset.Component) render.Cell { return render.Text(item.Brand) }},
					{Header: headers[2], Value: func(item *dataset.Component) render.Cell { return rating(item.Rating) }},
				},
			}
			for _, s := range specs {
				t.Columns = append(t.Columns, render.Column[*dataset.Component]{Header: s.header, Value: s.value})
			}
			return render.Render(w, t, ds.Components(c))
		},
	}, nil
}

func ebikeComparison() *Comparison {
	headers := []string{"Modello", "Categoria", "Anno", "Valutazione", "Motore", "Batteria", "Freni"}
	return &Comparison{
		Category: dataset.EBikes,
		Headers:  headers,
		render: func(w io.Writer, ds *dataset.Dataset, l Linker) error {
			ref := func(role dataset.Role) func(query.ScoredEBike) render.Cell {
				return func(b query.ScoredEBike) render.Cell {
					if c, ok := ds.Resolve(b.EBike, role); ok {
						return render.Text(c.Name())
					}
					return render.Cell{}
				}
			}
			t := render.Table[query.ScoredEBike]{
				ID:    ComparisonTableID,
				Class: "comparison-table",
				Columns: []render.Column[query.ScoredEBike]{
					{Header: headers[0], Value: func(b query.ScoredEBike) render.Cell {
						return render.Cell{Text: b.Model, Href: l.EBike(b.ID), Class: "fixed-column model-name"}
					}},
					{Header: headers[1], Value: func(b query.ScoredEBike) render.Cell { return render.Text(b.Class) }},
					{Header: headers[2], Value: func(b query.ScoredEBike) render.Cell { return render.Int(b.Year) }},
					{Header: headers[3], Value: func(b query.ScoredEBike) render.Cell { return render.Score(b.Score) }},
					{Header: headers[4], Value: ref(dataset.RoleMotor)},
					{Header: headers[5], Value: ref(dataset.RoleBattery)},
					{Header: headers[6], Value: ref(dataset.RoleBrakes)},
				},
			}
			return render.Render(w, t, query.SortEBikesByScore(ds.EBikes(), ds))
		},
	}
}
