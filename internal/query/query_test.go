package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/dataset/datasettest"
)

func ids(items []*dataset.Component) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestFilter(t *testing.T) {
	motors := datasettest.Sample(t).Components(dataset.Motors)

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term keeps all", "", []string{"MO001", "MO002", "MO003"}},
		{"whitespace term keeps all", "   ", []string{"MO001", "MO002", "MO003"}},
		{"brand case-insensitive", "BOSCH", []string{"MO001"}},
		{"spans brand and model", "shimano ep8", []string{"MO002"}},
		{"model only", "drive", []string{"MO003"}},
		{"no match", "yamaha", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(motors, tt.term)))
		})
	}
}

func TestFilter_IdempotentAndPure(t *testing.T) {
	motors := datasettest.Sample(t).Components(dataset.Motors)
	before := ids(motors)

	once := Filter(motors, "o")
	twice := Filter(once, "o")

	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, before, ids(motors))
}

func TestFilter_UnicodeFolding(t *testing.T) {
	items := []*dataset.Component{
		{ID: "A", Brand: "Straße", Model: "X"},
		{ID: "B", Brand: "Ößa", Model: "Y"},
	}
	assert.Equal(t, []string{"A"}, ids(Filter(items, "STRASSE")))
	assert.Equal(t, []string{"B"}, ids(Filter(items, "öß")))
}

func TestFilter_EBikes(t *testing.T) {
	bikes := datasettest.Sample(t).EBikes()
	got := Filter(bikes, "levo")
	require.Len(t, got, 1)
	assert.Equal(t, "EB002", got[0].ID)
}

func TestFilterBrand(t *testing.T) {
	items := datasettest.Sample(t).Components(dataset.Suspensions)

	assert.Equal(t, []string{"SU001", "SU002"}, ids(FilterBrand(items, "Fox")))
	assert.Len(t, FilterBrand(items, AllBrands), 3)
	assert.Len(t, FilterBrand(items, ""), 3)
	assert.Empty(t, FilterBrand(items, "fox"))
}

func TestBrands(t *testing.T) {
	items := datasettest.Sample(t).Components(dataset.Suspensions)
	items = append(items, &dataset.Component{ID: "X"})
	assert.Equal(t, []string{"Fox", "RockShox"}, Brands(items))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"", ByPosition, false},
		{"default", ByPosition, false},
		{"valutazione", ByRating, false},
		{"peso", ByWeight, false},
		{"peso_kg", ByWeight, false},
		{"coppia", ByTorque, false},
		{"prezzo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSort(t *testing.T) {
	items := []*dataset.Component{
		{ID: "a", Position: ptr(3), Rating: 7, Weight: ptr(3.1), Torque: ptr(85.0)},
		{ID: "b", Position: ptr(1), Rating: 9, Torque: ptr(90.0)},
		{ID: "c", Rating: 7, Weight: ptr(2.5), Torque: ptr(85.0)},
		{ID: "d", Position: ptr(2), Weight: ptr(2.9)},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{ByRating, []string{"b", "a", "c", "d"}},
		{ByWeight, []string{"c", "d", "a", "b"}},
		{ByTorque, []string{"b", "a", "c", "d"}},
		{ByPosition, []string{"b", "d", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(items, tt.key)))
		})
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(items), "input unchanged")
}

func TestSortEBikesByScore(t *testing.T) {
	ds := datasettest.Sample(t)
	got := SortEBikesByScore(ds.EBikes(), ds)

	require.Len(t, got, 4)
	var order []string
	for _, s := range got {
		order = append(order, s.ID)
	}
	assert.Equal(t, []string{"EB002", "EB004", "EB001", "EB003"}, order)
	assert.InDelta(t, 8.1, got[0].Score, 0.0001)
	assert.Zero(t, got[3].Score)
}
