package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name   string
	URL    string
	Rating float64
	Torque *float64
}

func testTable() Table[item] {
	return Table[item]{
		ID: "tbl",
		Columns: []Column[item]{
			{Header: "Modello", Value: func(i item) Cell { return Link(i.Name, i.URL) }},
			{Header: "Valutazione", Value: func(i item) Cell { return Score(i.Rating) }},
			{Header: "Coppia", Value: func(i item) Cell { return Number(i.Torque, " Nm") }},
		},
	}
}

func render(t *testing.T, items []item) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testTable(), items))
	return buf.String()
}

func TestRender_Empty(t *testing.T) {
	for _, items := range [][]item{nil, {}} {
		out := render(t, items)
		assert.Equal(t, 1, strings.Count(out, "<tr class=\"no-data\">"))
		assert.Contains(t, out, `<td colspan="3">Nessun dato trovato.</td>`)
		assert.Equal(t, 2, strings.Count(out, "<tr"), "header row and no-data row only")
	}
}

func TestRender_RowsInInputOrder(t *testing.T) {
	torque := 85.0
	out := render(t, []item{
		{Name: "Zeta", URL: "/a", Rating: 7.26, Torque: &torque},
		{Name: "Alfa", URL: "/b"},
	})

	assert.Equal(t, 3, strings.Count(out, "<tr>"))
	assert.Equal(t, 1, strings.Count(out, `<tr class="no-data" hidden>`))
	assert.Equal(t, 6, strings.Count(out, "<td>"))
	assert.Less(t, strings.Index(out, "Zeta"), strings.Index(out, "Alfa"))
	assert.Contains(t, out, `<span class="rating-badge">7.3</span>`)
	assert.Contains(t, out, "85 Nm")
	assert.Equal(t, 2, strings.Count(out, `<span class="placeholder">N/D</span>`))
}

func TestRender_EscapesText(t *testing.T) {
	out := render(t, []item{{Name: `<img src=x onerror="alert(1)">`, URL: "/x"}})
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;img")
}

func TestRender_UnsafeLinksDropped(t *testing.T) {
	tests := []struct {
		url      string
		wantLink bool
	}{
		{"https://example.com/r", true},
		{"http://example.com/r", true},
		{"/classifiche/scheda", true},
		{"../classifiche/scheda.html", true},
		{"javascript:alert(1)", false},
		{" JavaScript:alert(1)", false},
		{"data:text/html,hi", false},
		{"//evil.example", false},
		{`/\evil.example`, false},
		{`/\/evil.example`, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			out := render(t, []item{{Name: "Bosch", URL: tt.url}})
			assert.Equal(t, tt.wantLink, strings.Contains(out, "<a href="))
			assert.Contains(t, out, "Bosch")
		})
	}
}

func TestRender_Lines(t *testing.T) {
	tbl := Table[item]{Columns: []Column[item]{
		{Header: "Riepilogo", Value: func(i item) Cell {
			return Cell{Lines: []Line{
				{Label: "Motore", Text: "Bosch CX (8.0)", Href: "/m"},
				{Label: "Batteria", Text: "<b>"},
			}}
		}},
	}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tbl, []item{{}}))
	out := buf.String()
	assert.Contains(t, out, `<strong>Motore:</strong> <a href="/m">Bosch CX (8.0)</a><br><strong>Batteria:</strong> &lt;b&gt;`)
}

func TestHTML(t *testing.T) {
	h, err := HTML(testTable(), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(h), `<table id="tbl">`))
}

func TestCell_Plain(t *testing.T) {
	assert.Equal(t, "N/D", Cell{}.Plain())
	assert.Equal(t, "85 Nm", Cell{Text: "85", Suffix: " Nm"}.Plain())
	assert.Equal(t, "Motore: A; B", Cell{Lines: []Line{{Label: "Motore", Text: "A"}, {Text: "B"}}}.Plain())
}

func TestScore(t *testing.T) {
	assert.True(t, Score(0).Empty())
	assert.True(t, Score(-2).Empty())
	assert.Equal(t, "6.5", Score(6.5).Text)
}
