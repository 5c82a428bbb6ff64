// Package query filters and orders dataset records for display. Every
// function returns a new slice and leaves its input untouched.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

// AllBrands is the brand filter value that keeps every item.
const AllBrands = "all"

// Named is anything searchable by its "marca modello" name.
type Named interface {
	Name() string
}

// Filter keeps the items whose name contains term, ignoring case. An empty
// term keeps everything.
func Filter[T Named](items []T, term string) []T {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if needle == "" || strings.Contains(fold.String(it.Name()), needle) {
			out = append(out, it)
		}
	}
	return out
}

// FilterBrand keeps the components of the given brand. "" and "all" keep
// everything.
func FilterBrand(items []*dataset.Component, brand string) []*dataset.Component {
	brand = strings.TrimSpace(brand)
	if brand == "" || brand == AllBrands {
		return slices.Clone(items)
	}
	out := make([]*dataset.Component, 0, len(items))
	for _, it := range items {
		if it.Brand == brand {
			out = append(out, it)
		}
	}
	return out
}

// Brands returns the distinct non-empty brands, sorted.
func Brands(items []*dataset.Component) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, it := range items {
		if it.Brand == "" {
			continue
		}
		if _, ok := seen[it.Brand]; ok {
			continue
		}
		seen[it.Brand] = struct{}{}
		out = append(out, it.Brand)
	}
	slices.Sort(out)
	return out
}

// SortKey names a component ordering.
type SortKey string

const (
	ByPosition SortKey = "posizione"
	ByRating   SortKey = "valutazione"
	ByWeight   SortKey = "peso_kg"
	ByTorque   SortKey = "coppia_max_nm"
)

// SortKeys returns the supported orderings, default first.
func SortKeys() []SortKey {
	return []SortKey{ByPosition, ByRating, ByTorque, ByWeight}
}

// Label is the control text for the key.
func (k SortKey) Label() string {
	switch k {
	case ByRating:
		return "Valutazione"
	case ByWeight:
		return "Peso (più leggero)"
	case ByTorque:
		return "Coppia"
	default:
		return "Posizione"
	}
}

// ParseSortKey accepts the key names plus the legacy "peso" and "coppia".
// An empty value selects ByPosition.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.TrimSpace(s) {
	case "", "default", string(ByPosition):
		return ByPosition, nil
	case string(ByRating):
		return ByRating, nil
	case string(ByWeight), "peso":
		return ByWeight, nil
	case string(ByTorque), "coppia":
		return ByTorque, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Sort orders components by key: rating and torque descending, weight and
// position ascending. Items without the value come last. Ties keep input
// order.
func Sort(items []*dataset.Component, key SortKey) []*dataset.Component {
	out := slices.Clone(items)
	switch key {
	case ByRating:
		slices.SortStableFunc(out, desc(func(c *dataset.Component) (float64, bool) {
			return c.Rating.Float(), c.Rating.Rated()
		}))
	case ByTorque:
		slices.SortStableFunc(out, desc(func(c *dataset.Component) (float64, bool) {
			return deref(c.Torque)
		}))
	case ByWeight:
		slices.SortStableFunc(out, asc(func(c *dataset.Component) (float64, bool) {
			return deref(c.Weight)
		}))
	default:
		slices.SortStableFunc(out, asc(func(c *dataset.Component) (float64, bool) {
			if c.Position == nil {
				return 0, false
			}
			return float64(*c.Position), true
		}))
	}
	return out
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

type value func(*dataset.Component) (float64, bool)

func asc(v value) func(a, b *dataset.Component) int {
	return func(a, b *dataset.Component) int {
		return compare(v, a, b, false)
	}
}

func desc(v value) func(a, b *dataset.Component) int {
	return func(a, b *dataset.Component) int {
		return compare(v, a, b, true)
	}
}

func compare(v value, a, b *dataset.Component, descending bool) int {
	av, aok := v(a)
	bv, bok := v(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	case descending:
		return cmp.Compare(bv, av)
	default:
		return cmp.Compare(av, bv)
	}
}

// ScoredEBike pairs an e-bike with its composite score.
type ScoredEBike struct {
	*dataset.EBike
	Score float64
}

// SortEBikesByScore returns the e-bikes ordered by composite score,
// highest first. Ties keep input order.
func SortEBikesByScore(bikes []*dataset.EBike, ds *dataset.Dataset) []ScoredEBike {
	out := make([]ScoredEBike, 0, len(bikes))
	for _, b := range bikes {
		out = append(out, ScoredEBike{EBike: b, Score: scoring.Compute(b, ds)})
	}
	slices.SortStableFunc(out, func(a, b ScoredEBike) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
