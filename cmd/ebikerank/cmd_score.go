package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/render"
	"github.com/ebikeratings/ebikerank/internal/scoring"
)

type scoreRow struct {
	bike *dataset.EBike
	bd   scoring.Breakdown
}

func newScoreCommand() *cobra.Command {
	var (
		minScore float64
		explain  bool
	)

	cmd := &cobra.Command{
		Use:   "score [id...]",
		Short: "Print composite scores",
		Long: `Print the composite score of every e-bike, or of the given ids.

The score is the weighted average of the motor (40%), battery (30%),
brakes (15%) and suspension (15%) ratings over the parts that are
rated. Use --explain to add one column per part.

With --min, the command exits with status 1 when any listed e-bike scores
below the threshold.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}

			bikes := ds.EBikes()
			if len(args) > 0 {
				bikes = nil
				for _, id := range args {
					b, err := ds.EBike(id)
					if err != nil {
						return err
					}
					bikes = append(bikes, b)
				}
			}

			rows := make([]scoreRow, 0, len(bikes))
			var below []string
			for _, b := range bikes {
				r := scoreRow{bike: b, bd: scoring.Explain(b, ds)}
				rows = append(rows, r)
				if cmd.Flags().Changed("min") && r.bd.Score < minScore {
					below = append(below, b.ID)
				}
			}
			if err := render.Print(render.NewConsole(cmd.OutOrStdout()), scoreTable(explain), rows); err != nil {
				return err
			}

			if len(below) > 0 {
				return &ThresholdError{Message: fmt.Sprintf("%d e-bike(s) below %.1f: %v", len(below), minScore, below)}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minScore, "min", 0, "Fail when a score is below this value")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the rating of each part")

	return cmd
}

func scoreTable(explain bool) render.Table[scoreRow] {
	t := render.Table[scoreRow]{
		Columns: []render.Column[scoreRow]{
			{Header: "ID", Value: func(r scoreRow) render.Cell { return render.Text(r.bike.ID) }},
			{Header: "Modello", Value: func(r scoreRow) render.Cell { return render.Text(r.bike.Name()) }},
			{Header: "Punteggio", Value: func(r scoreRow) render.Cell { return render.Score(r.bd.Score) }},
		},
	}
	if !explain {
		return t
	}
	for i, role := range dataset.Roles() {
		t.Columns = append(t.Columns, render.Column[scoreRow]{
			Header: string(role),
			Value: func(r scoreRow) render.Cell {
				p := r.bd.Parts[i]
				if p.ID == "" {
					return render.Cell{}
				}
				return render.Text(p.ID + " " + dataset.Rating(p.Rating).String())
			},
		})
	}
	return t
}
