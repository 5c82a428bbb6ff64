package main

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_EBikesByScore(t *testing.T) {
	data := sampleData(t)

	out, err := run(t, "rank", "--data", data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6, "header, rule and four e-bikes")
	assert.True(t, strings.HasPrefix(lines[0], "Pos."))
	assert.Contains(t, lines[2], "Turbo Levo")
	assert.Contains(t, lines[2], "8.1")
	assert.Contains(t, lines[3], "AllMtn")
	assert.Contains(t, lines[4], "Wild M-LTD")
	assert.Contains(t, lines[5], "Stereo Hybrid")
}

func TestRank_Search(t *testing.T) {
	data := sampleData(t)

	out, err := run(t, "rank", "sospensioni", "--data", data, "--search", "fox")
	require.NoError(t, err)
	assert.Contains(t, out, "Fox 36 Factory")
	assert.Contains(t, out, "Fox Float X2")
	assert.NotContains(t, out, "Lyrik")
}

func TestRank_CSV(t *testing.T) {
	data := sampleData(t)

	out, err := run(t, "rank", "motori", "--data", data, "--format", "csv", "--sort", "peso_kg")
	require.NoError(t, err)

	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"Pos.", "Modello", "Coppia", "Peso", "Potenza", "Valutazione"}, recs[0])
	assert.Equal(t, "Shimano EP801", recs[1][1])
	assert.Equal(t, []string{"1", "Bosch Performance Line CX", "85 Nm", "2.9 kg", "600 W", "8.0"}, recs[2])
	assert.Equal(t, "Brose Drive S Mag", recs[3][1])
}

func TestRank_Brand(t *testing.T) {
	data := sampleData(t)

	out, err := run(t, "rank", "motori", "--data", data, "--brand", "Shimano", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Shimano EP801")
	assert.NotContains(t, out, "Bosch")
}

func TestRank_Errors(t *testing.T) {
	data := sampleData(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown category", []string{"rank", "telai"}},
		{"unknown format", []string{"rank", "--format", "xml"}},
		{"unknown sort", []string{"rank", "motori", "--sort", "prezzo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--data", data)...)
			assert.Error(t, err)
		})
	}
}
