// Package render turns records into HTML table fragments and terminal
// tables from a shared per-column configuration.
package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// NoData is the text of the single row rendered for an empty table.
const NoData = "Nessun dato trovato."

// Column maps an item to one table cell.
type Column[T any] struct {
	Header string
	Value  func(T) Cell
}

// Table is a column configuration for items of type T.
type Table[T any] struct {
	ID      string
	Class   string
	Columns []Column[T]
}

// Headers returns the column headers in order.
func (t Table[T]) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

// Cells evaluates every column for every item.
func (t Table[T]) Cells(items []T) [][]Cell {
	rows := make([][]Cell, 0, len(items))
	for _, it := range items {
		row := make([]Cell, len(t.Columns))
		for i, c := range t.Columns {
			if c.Value != nil {
				row[i] = c.Value(it)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

type lineView struct {
	Label string
	Text  string
	Href  string
}

type cellView struct {
	Class string
	Text  string
	Href  string
	Badge bool
	Empty bool
	Lines []lineView
}

type tableView struct {
	ID      string
	Class   string
	Headers []string
	Rows    [][]cellView
	Span    int
	NoData  string
}

var tableTmpl = template.Must(template.New("table").Parse(`
{{- define "text"}}{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}{{end}}
{{- define "cell"}}
{{- if .Lines}}
{{- range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{with $l.Label}}<strong>{{.}}:</strong> {{end}}{{template "text" $l}}{{end}}
{{- else if .Empty}}<span class="placeholder">N/D</span>
{{- else if .Badge}}<span class="rating-badge">{{template "text" .}}</span>
{{- else}}{{template "text" .}}
{{- end}}
{{- end -}}
<table{{with .ID}} id="{{.}}"{{end}}{{with .Class}} class="{{.}}"{{end}}>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
<tr class="no-data"{{if .Rows}} hidden{{end}}><td colspan="{{.Span}}">{{.NoData}}</td></tr>
{{- range .Rows}}
<tr>{{range .}}<td{{with .Class}} class="{{.}}"{{end}}>{{template "cell" .}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
`))

// Render writes the complete table for items. An empty list shows a
// single row spanning every column; other tables carry that row hidden so
// client-side filtering can reveal it. Text is escaped and links are dropped
// unless they pass IsSafeURL.
func Render[T any](w io.Writer, t Table[T], items []T) error {
	v := tableView{
		ID:      t.ID,
		Class:   t.Class,
		Headers: t.Headers(),
		Span:    max(len(t.Columns), 1),
		NoData:  NoData,
	}
	for _, row := range t.Cells(items) {
		cells := make([]cellView, len(row))
		for i, c := range row {
			cells[i] = view(c)
		}
		v.Rows = append(v.Rows, cells)
	}
	if err := tableTmpl.Execute(w, v); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

// HTML renders the table to a string for embedding in a page template.
func HTML[T any](t Table[T], items []T) (template.HTML, error) {
	var sb strings.Builder
	if err := Render(&sb, t, items); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil //nolint:gosec // escaped by tableTmpl
}

func view(c Cell) cellView {
	cv := cellView{
		Class: c.Class,
		Badge: c.Badge,
		Empty: c.Empty(),
	}
	if !cv.Empty {
		cv.Text = c.Text + c.Suffix
	}
	if IsSafeURL(c.Href) {
		cv.Href = strings.TrimSpace(c.Href)
	}
	for _, l := range c.Lines {
		lv := lineView{Label: l.Label, Text: l.Text}
		if IsSafeURL(l.Href) {
			lv.Href = strings.TrimSpace(l.Href)
		}
		cv.Lines = append(cv.Lines, lv)
	}
	return cv
}
