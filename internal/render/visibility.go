package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrFixedColumn is returned when hiding the first (identity) column.
	ErrFixedColumn = errors.New("the first column cannot be hidden")
	// ErrColumnRange is returned for a column index outside the table.
	ErrColumnRange = errors.New("column index out of range")
)

// Visibility tracks which columns of a rendered table are hidden. It only
// affects presentation: rows are never re-rendered.
type Visibility struct {
	columns int
	hidden  map[int]bool
}

// NewVisibility returns a visibility set for a table with the given number
// of columns, all visible.
func NewVisibility(columns int) *Visibility {
	return &Visibility{columns: columns, hidden: make(map[int]bool)}
}

// ParseVisibility reads a comma-separated list of hidden column indices, as
// carried in the "hide" query parameter. Invalid entries are errors.
func ParseVisibility(columns int, hide string) (*Visibility, error) {
	v := NewVisibility(columns)
	for _, part := range strings.Split(hide, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", part, ErrColumnRange)
		}
		if err := v.Hide(i); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ParseShown builds a visibility set from the columns a toggle form left
// checked, as carried in repeated "show" query parameters. Every other
// column except the first is hidden.
func ParseShown(columns int, show []string) (*Visibility, error) {
	shown := make(map[int]bool, len(show))
	for _, part := range show {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", part, ErrColumnRange)
		}
		if i < 0 || i >= columns {
			return nil, fmt.Errorf("column %d of %d: %w", i, columns, ErrColumnRange)
		}
		shown[i] = true
	}
	v := NewVisibility(columns)
	for i := 1; i < columns; i++ {
		if !shown[i] {
			v.hidden[i] = true
		}
	}
	return v, nil
}

func (v *Visibility) check(i int) error {
	if i == 0 {
		return ErrFixedColumn
	}
	if i < 0 || i >= v.columns {
		return fmt.Errorf("column %d of %d: %w", i, v.columns, ErrColumnRange)
	}
	return nil
}

// Hide hides column i.
func (v *Visibility) Hide(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	v.hidden[i] = true
	return nil
}

// Show shows column i.
func (v *Visibility) Show(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	delete(v.hidden, i)
	return nil
}

// Toggle flips column i.
func (v *Visibility) Toggle(i int) error {
	if err := v.check(i); err != nil {
		return err
	}
	if v.hidden[i] {
		delete(v.hidden, i)
	} else {
		v.hidden[i] = true
	}
	return nil
}

// Hidden reports whether column i is hidden.
func (v *Visibility) Hidden(i int) bool {
	return v.hidden[i]
}

// HiddenColumns returns the hidden indices in ascending order.
func (v *Visibility) HiddenColumns() []int {
	out := make([]int, 0, len(v.hidden))
	for i := range v.hidden {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// String encodes the hidden columns for the "hide" query parameter.
func (v *Visibility) String() string {
	cols := v.HiddenColumns()
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// Stylesheet returns nth-child rules hiding the columns of the table with
// the given element id.
func (v *Visibility) Stylesheet(tableID string) template.CSS {
	var sb strings.Builder
	for _, i := range v.HiddenColumns() {
		n := i + 1
		fmt.Fprintf(&sb, "#%s th:nth-child(%d), #%s td:nth-child(%d) { display: none; }\n", tableID, n, tableID, n)
	}
	return template.CSS(sb.String()) //nolint:gosec // ids are set by the page, not by request data
}

var togglesTmpl = template.Must(template.New("toggles").Parse(`<div class="column-toggles" data-table="{{.Table}}">
{{- range .Boxes}}
<label><input type="checkbox" name="show" value="{{.Index}}" data-column="{{.Index}}"{{if .Checked}} checked{{end}}> {{.Header}}</label>
{{- end}}
</div>
`))

// WriteToggles writes one checkbox per toggleable column. The first column
// gets none. Checked boxes submit as "show" parameters; see ParseShown.
func (v *Visibility) WriteToggles(w io.Writer, tableID string, headers []string) error {
	type box struct {
		Index   int
		Header  string
		Checked bool
	}
	data := struct {
		Table string
		Boxes []box
	}{Table: tableID}
	for i, h := range headers {
		if i == 0 {
			continue
		}
		data.Boxes = append(data.Boxes, box{Index: i, Header: h, Checked: !v.Hidden(i)})
	}
	return togglesTmpl.Execute(w, data)
}
