// Package datasettest provides a small data document shared by tests.
package datasettest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ebikeratings/ebikerank/internal/dataset"
)

// SampleJSON covers resolved, dangling and unrated references, string and
// comma-decimal ratings, an "N/A" marker and an unsafe source URL.
//
// Expected composite scores: EB001 6.5, EB002 8.1, EB003 0, EB004 7.
const SampleJSON = `{
  "e_bikes": [
    {"id": "EB001", "posizione": 1, "modello": "Wild M-LTD", "marca": "Orbea", "categoria": "eMTB", "anno": 2024,
     "id_motore": "MO001", "id_batteria": "BA001", "id_freni": "FR001", "id_forcella": "SU001", "id_ammortizzatore": "SU002",
     "analisi_completa": "Una **eMTB** completa."},
    {"id": "EB002", "posizione": 2, "modello": "Turbo Levo", "marca": "Specialized", "categoria": "eMTB", "anno": 2023,
     "id_motore": "MO002", "id_batteria": "BA002", "id_freni": "FR002", "id_forcella": "SU003"},
    {"id": "EB003", "posizione": 3, "modello": "Stereo Hybrid", "marca": "Cube", "categoria": "Trekking",
     "id_motore": "MO999", "id_batteria": "BA002"},
    {"id": "EB004", "modello": "AllMtn <script>", "marca": "Haibike", "categoria": "eMTB",
     "id_motore": "MO003", "id_batteria": "BA001", "id_freni": "FR002"}
  ],
  "motori": [
    {"id": "MO001", "posizione": 1, "marca": "Bosch", "modello": "Performance Line CX", "valutazione": 8, "tipo": "Centrale",
     "coppia_max_nm": 85, "peso_kg": 2.9, "potenza_picco_w": 600, "anno_rilascio": 2023, "note": "Riferimento del mercato.",
     "fonte_url": "https://example.com/bosch-cx", "vantaggi": ["Coppia", "Affidabilità"]},
    {"id": "MO002", "posizione": 2, "marca": "Shimano", "modello": "EP801", "valutazione": "7,5",
     "coppia_max_nm": 85, "peso_kg": 2.7, "potenza_picco_w": 600},
    {"id": "MO003", "posizione": 3, "marca": "Brose", "modello": "Drive S Mag", "valutazione": "N/A",
     "coppia_max_nm": 90, "peso_kg": null}
  ],
  "batterie": [
    {"id": "BA001", "posizione": 1, "marca": "Bosch", "modello": "PowerTube 750", "valutazione": 6, "capacita_wh": 750},
    {"id": "BA002", "posizione": 2, "marca": "Shimano", "modello": "BT-E8036", "valutazione": null, "capacita_wh": 630}
  ],
  "freni": [
    {"id": "FR001", "posizione": 1, "marca": "Shimano", "modello": "XT M8120", "valutazione": 4, "tipo": "Idraulico a disco", "numero_pistoncini": 4},
    {"id": "FR002", "posizione": 2, "marca": "SRAM", "modello": "Code RSC", "valutazione": 9, "tipo": "Idraulico a disco", "numero_pistoncini": 4}
  ],
  "sospensioni": [
    {"id": "SU001", "posizione": 1, "marca": "Fox", "modello": "36 Factory", "valutazione": 5, "tipo": "Forcella", "escursione_mm": 160},
    {"id": "SU002", "posizione": 2, "marca": "Fox", "modello": "Float X2", "valutazione": 7, "tipo": "Ammortizzatore", "escursione_mm": 65},
    {"id": "SU003", "posizione": 3, "marca": "RockShox", "modello": "Lyrik", "valutazione": 9, "tipo": "Forcella", "escursione_mm": 160,
     "fonte_url": "javascript:alert(1)", "analisi": "Forcella da enduro."}
  ]
}
`

// Sample decodes SampleJSON.
func Sample(t testing.TB) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load(strings.NewReader(SampleJSON))
	require.NoError(t, err)
	return ds
}

// WriteFile writes SampleJSON to dir and returns its path.
func WriteFile(t testing.TB, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "ebike-data.json")
	require.NoError(t, os.WriteFile(p, []byte(SampleJSON), 0o644))
	return p
}
