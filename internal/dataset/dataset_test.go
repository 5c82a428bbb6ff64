package dataset_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/dataset/datasettest"
)

func TestLoad_Sample(t *testing.T) {
	ds := datasettest.Sample(t)

	assert.Equal(t, 4, ds.Count(dataset.EBikes))
	assert.Equal(t, 3, ds.Count(dataset.Motors))
	assert.Equal(t, 2, ds.Count(dataset.Batteries))
	assert.Equal(t, 2, ds.Count(dataset.Brakes))
	assert.Equal(t, 3, ds.Count(dataset.Suspensions))

	bike, err := ds.EBike("EB001")
	require.NoError(t, err)
	assert.Equal(t, "Orbea Wild M-LTD", bike.Name())
	require.NotNil(t, bike.Year)
	assert.Equal(t, 2024, *bike.Year)
	assert.Equal(t, "SU002", bike.ComponentID(dataset.RoleShock))
}

func TestLoad_RatingTolerance(t *testing.T) {
	ds := datasettest.Sample(t)

	tests := []struct {
		cat   dataset.Category
		id    string
		want  dataset.Rating
		rated bool
	}{
		{dataset.Motors, "MO001", 8, true},
		{dataset.Motors, "MO002", 7.5, true},
		{dataset.Motors, "MO003", 0, false},
		{dataset.Batteries, "BA002", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, err := ds.Component(tt.cat, tt.id)
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.want), c.Rating.Float(), 0.0001)
			assert.Equal(t, tt.rated, c.Rating.Rated())
		})
	}
}

func TestLoad_UnparsableSpecDropped(t *testing.T) {
	ds := datasettest.Sample(t)
	c, err := ds.Component(dataset.Motors, "MO003")
	require.NoError(t, err)
	assert.Nil(t, c.Weight)
	require.NotNil(t, c.Torque)
	assert.Equal(t, 90.0, *c.Torque)
}

func TestLoad_MissingCollectionsAreEmpty(t *testing.T) {
	ds, err := dataset.Load(strings.NewReader(`{"motori": [{"id": "MO001", "marca": "Bosch", "modello": "CX"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Count(dataset.EBikes))
	assert.Empty(t, ds.Components(dataset.Suspensions))
	assert.Len(t, ds.Components(dataset.Motors), 1)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty input", "", "empty input"},
		{"malformed", `{"motori": [`, "parsing document"},
		{"missing id", `{"freni": [{"marca": "SRAM"}]}`, "freni[0]: missing id"},
		{"duplicate id", `{"e_bikes": [{"id": "EB1"}, {"id": "EB1"}]}`, `e_bikes[1]: duplicate id "EB1"`},
		{"collection not a list", `{"batterie": {"id": "BA1"}}`, "parsing batterie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_NumericIDsBecomeStrings(t *testing.T) {
	ds, err := dataset.Load(strings.NewReader(`{"e_bikes": [{"id": 7, "modello": "X", "id_motore": 3}], "motori": [{"id": 3, "valutazione": 6}]}`))
	require.NoError(t, err)
	bike, err := ds.EBike("7")
	require.NoError(t, err)
	m, ok := ds.Resolve(bike, dataset.RoleMotor)
	require.True(t, ok)
	assert.Equal(t, "3", m.ID)
}

func TestLookup(t *testing.T) {
	ds := datasettest.Sample(t)

	_, err := ds.EBike("EB404")
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = ds.Component(dataset.Brakes, "nope")
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	_, err = ds.Component(dataset.EBikes, "EB001")
	assert.ErrorIs(t, err, dataset.ErrUnknownCategory)

	c, err := ds.Component(dataset.Suspensions, " SU002 ")
	require.NoError(t, err)
	assert.Equal(t, dataset.Suspensions, c.Category)
	assert.Equal(t, "Fox Float X2", c.Name())
}

func TestResolve(t *testing.T) {
	ds := datasettest.Sample(t)

	b3, err := ds.EBike("EB003")
	require.NoError(t, err)
	_, ok := ds.Resolve(b3, dataset.RoleMotor)
	assert.False(t, ok, "dangling reference")
	_, ok = ds.Resolve(b3, dataset.RoleFork)
	assert.False(t, ok, "empty reference")

	b1, err := ds.EBike("EB001")
	require.NoError(t, err)
	shock, ok := ds.Resolve(b1, dataset.RoleShock)
	require.True(t, ok)
	assert.Equal(t, "SU002", shock.ID)

	var nilDS *dataset.Dataset
	_, ok = nilDS.Resolve(b1, dataset.RoleMotor)
	assert.False(t, ok)
}

func TestComponentsReturnsCopy(t *testing.T) {
	ds := datasettest.Sample(t)
	items := ds.Components(dataset.Motors)
	items[0] = nil
	assert.NotNil(t, ds.Components(dataset.Motors)[0])
}

func TestDocument_RoundTripKeepsOrder(t *testing.T) {
	in := `{"meta": {"v": 1}, "motori": [{"id": "MO1", "zeta": 1, "alfa": "x", "valutazione": "N/A"}], "freni": []}`
	doc, err := dataset.ParseDocument(strings.NewReader(in))
	require.NoError(t, err)

	recs := doc.Records(dataset.Motors)
	require.Len(t, recs, 1)
	recs[0].Set("valutazione", 7.5)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	out := buf.String()

	assert.Less(t, strings.Index(out, `"meta"`), strings.Index(out, `"motori"`))
	assert.Less(t, strings.Index(out, `"motori"`), strings.Index(out, `"freni"`))
	assert.Less(t, strings.Index(out, `"zeta"`), strings.Index(out, `"alfa"`))
	assert.Contains(t, out, `"valutazione": 7.5`)
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestDocument_Save(t *testing.T) {
	doc, err := dataset.ParseDocument(strings.NewReader(datasettest.SampleJSON))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "data.json")
	require.NoError(t, doc.Save(path))

	ds, err := dataset.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Count(dataset.EBikes))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := dataset.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening data file")
}
