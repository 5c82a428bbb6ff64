// Package scoring computes the composite rating of an e-bike from the
// ratings of the components it references.
package scoring

import (
	"fmt"
	"math"

	"github.com/ebikeratings/ebikerank/internal/dataset"
)

// Weights defines the relative importance of each component group.
// All weights must sum to 1.0 (±0.001 tolerance).
type Weights struct {
	Motor      float64 `json:"motore"`
	Battery    float64 `json:"batteria"`
	Brakes     float64 `json:"freni"`
	Suspension float64 `json:"sospensioni"`
}

// DefaultWeights returns the site's weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Motor:      0.40,
		Battery:    0.30,
		Brakes:     0.15,
		Suspension: 0.15,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Motor + w.Battery + w.Brakes + w.Suspension
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Motor, w.Battery, w.Brakes, w.Suspension} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

// Part is the resolved component for one role.
type Part struct {
	Role      dataset.Role       `json:"ruolo"`
	Component *dataset.Component `json:"-"`
	ID        string             `json:"id,omitempty"`
	Rating    float64            `json:"valutazione"`
	Rated     bool               `json:"valutata"`
}

// Breakdown explains how a composite score was reached.
type Breakdown struct {
	Parts       []Part  `json:"componenti"`
	Suspension  float64 `json:"sospensioni"`
	TotalWeight float64 `json:"peso_totale"`
	Score       float64 `json:"punteggio"`
}

// Compute returns the composite score of b in [0,10], rounded to one
// decimal. It is 0 when no rated component resolves.
func Compute(b *dataset.EBike, ds *dataset.Dataset) float64 {
	return Explain(b, ds).Score
}

// Explain computes the composite score with the default weights and
// returns the per-role detail.
func Explain(b *dataset.EBike, ds *dataset.Dataset) Breakdown {
	return DefaultWeights().Explain(b, ds)
}

// Explain computes the composite score of b with w. Unresolved and unrated
// components contribute no weight. Fork and shock are averaged into a single
// suspension rating.
func (w Weights) Explain(b *dataset.EBike, ds *dataset.Dataset) Breakdown {
	var bd Breakdown
	if b == nil || ds == nil {
		return bd
	}

	rating := make(map[dataset.Role]float64, 5)
	for _, role := range dataset.Roles() {
		p := Part{Role: role}
		if c, ok := ds.Resolve(b, role); ok {
			p.Component = c
			p.ID = c.ID
			if c.Rating.Rated() {
				p.Rating = c.Rating.Float()
				p.Rated = true
				rating[role] = p.Rating
			}
		}
		bd.Parts = append(bd.Parts, p)
	}

	var sum float64
	add := func(r, weight float64) {
		sum += r * weight
		bd.TotalWeight += weight
	}
	if r, ok := rating[dataset.RoleMotor]; ok {
		add(r, w.Motor)
	}
	if r, ok := rating[dataset.RoleBattery]; ok {
		add(r, w.Battery)
	}
	if r, ok := rating[dataset.RoleBrakes]; ok {
		add(r, w.Brakes)
	}

	var susp []float64
	for _, role := range []dataset.Role{dataset.RoleFork, dataset.RoleShock} {
		if r, ok := rating[role]; ok {
			susp = append(susp, r)
		}
	}
	if len(susp) > 0 {
		var total float64
		for _, r := range susp {
			total += r
		}
		bd.Suspension = total / float64(len(susp))
		add(bd.Suspension, w.Suspension)
	}

	if bd.TotalWeight == 0 {
		return bd
	}
	bd.Score = Round(sum / bd.TotalWeight)
	return bd
}

// Round rounds v to one decimal place.
func Round(v float64) float64 {
	return math.Round(v*10) / 10
}
