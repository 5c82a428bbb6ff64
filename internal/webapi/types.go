package webapi

import (
	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

// EBikeResponse is an e-bike with its composite score.
type EBikeResponse struct {
	*dataset.EBike
	Score float64 `json:"punteggio"`
}

// EBikeDetail adds the per-role score breakdown and the resolved components.
type EBikeDetail struct {
	EBikeResponse
	Breakdown  scoring.Breakdown             `json:"dettaglio"`
	Components map[string]*ComponentResponse `json:"componenti"`
}

// ComponentResponse is a component record tagged with its collection.
type ComponentResponse struct {
	*dataset.Component
	Category dataset.Category `json:"categoria"`
	Name     string           `json:"nome"`
}

// SummaryResponse is the aggregate dataset response.
type SummaryResponse struct {
	Counts   map[dataset.Category]int `json:"conteggi"`
	Rated    int                      `json:"ebike_valutate"`
	AvgScore float64                  `json:"punteggio_medio"`
	Best     *EBikeResponse           `json:"migliore,omitempty"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
