package render

import (
	"strconv"
	"strings"
)

// Placeholder is shown for empty values.
const Placeholder = "N/D"

// Line is one labelled line of a multi-line cell.
type Line struct {
	Label string
	Text  string
	Href  string
}

// Cell is the rendered value of one column for one item.
type Cell struct {
	Text string
	// Href turns the text into a link when it passes IsSafeURL.
	Href string
	// Badge wraps the text in a rating badge.
	Badge bool
	// Suffix is appended to non-empty text, e.g. " Nm".
	Suffix string
	// Lines replaces Text with labelled lines.
	Lines []Line
	Class string
}

// Empty reports whether the cell has nothing to show.
func (c Cell) Empty() bool {
	return strings.TrimSpace(c.Text) == "" && len(c.Lines) == 0
}

// Plain is the cell as unformatted text, with Placeholder when empty.
func (c Cell) Plain() string {
	if len(c.Lines) > 0 {
		parts := make([]string, 0, len(c.Lines))
		for _, l := range c.Lines {
			if l.Label != "" {
				parts = append(parts, l.Label+": "+l.Text)
			} else {
				parts = append(parts, l.Text)
			}
		}
		return strings.Join(parts, "; ")
	}
	if c.Empty() {
		return Placeholder
	}
	return c.Text + c.Suffix
}

// IsSafeURL reports whether u may be used as an href. Only http, https,
// root-relative and parent-relative URLs pass.
func IsSafeURL(u string) bool {
	s := strings.ToLower(strings.TrimSpace(u))
	// "//host" and "/\host" are protocol-relative in browsers.
	if s == "" || strings.HasPrefix(s, "//") || strings.HasPrefix(s, `/\`) {
		return false
	}
	for _, p := range []string{"http://", "https://", "/", ".."} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Text returns a plain text cell.
func Text(s string) Cell {
	return Cell{Text: s}
}

// Link returns a cell linking s to href.
func Link(s, href string) Cell {
	return Cell{Text: s, Href: href}
}

// Number formats an optional number with its unit suffix.
func Number(v *float64, suffix string) Cell {
	if v == nil {
		return Cell{}
	}
	return Cell{Text: strconv.FormatFloat(*v, 'f', -1, 64), Suffix: suffix}
}

// Int formats an optional integer.
func Int(v *int) Cell {
	if v == nil {
		return Cell{}
	}
	return Cell{Text: strconv.Itoa(*v)}
}

// Score returns a rating badge, or an empty cell when v is not positive.
func Score(v float64) Cell {
	if v <= 0 {
		return Cell{}
	}
	return Cell{Text: strconv.FormatFloat(v, 'f', 1, 64), Badge: true}
}
