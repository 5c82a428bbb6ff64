package site

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ebikeratings/ebikerank/internal/dataset"
)

// specExcluded are record fields shown elsewhere on the detail page.
var specExcluded = map[string]bool{
	"id":               true,
	"posizione":        true,
	"modello":          true,
	"marca":            true,
	"valutazione":      true,
	"note":             true,
	"analisi_completa": true,
	"fonte_url":        true,
	"analisi":          true,
}

// Spec is one labelled entry of a component's spec list.
type Spec struct {
	Label string
	Value string
}

// FormatKey turns a field name into a label: "coppia_max_nm" becomes
// "Coppia Max Nm".
func FormatKey(key string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}

// Specs lists the displayable fields of a record in document order. Empty
// values are skipped and arrays are joined with ", ".
func Specs(rec *dataset.Record) []Spec {
	if rec == nil {
		return nil
	}
	var out []Spec
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		if specExcluded[pair.Key] {
			continue
		}
		v := formatValue(pair.Value)
		if v == "" {
			continue
		}
		out = append(out, Spec{Label: FormatKey(pair.Key), Value: v})
	}
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "Sì"
		}
		return "No"
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s := formatValue(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
