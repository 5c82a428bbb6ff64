package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/query"
	"github.com/ebikeratings/ebikerank/internal/render"
	"github.com/ebikeratings/ebikerank/internal/site"
)

func newRankCommand() *cobra.Command {
	var (
		format   string
		term     string
		brand    string
		sortKey  string
		maxWidth int
	)

	cmd := &cobra.Command{
		Use:   "rank [category]",
		Short: "Print a rankings table in the terminal",
		Long: `Print the rankings of one collection: e_bikes (default), motori,
batterie, freni or sospensioni.

E-bikes are ordered by composite score. Components can be searched with
--search, filtered with --brand and ordered with --sort (posizione,
valutazione, peso_kg, coppia_max_nm).

Use --format csv for a spreadsheet-friendly export.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := dataset.EBikes
			if len(args) > 0 {
				c, err := dataset.ParseCategory(args[0])
				if err != nil {
					return err
				}
				cat = c
			}
			if format != "table" && format != "csv" {
				return fmt.Errorf("unknown format %q (want table or csv)", format)
			}
			key, err := query.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			_, ds, err := loadDataset(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cat == dataset.EBikes {
				bikes := query.Filter(ds.EBikes(), term)
				sorted := make([]*dataset.EBike, 0, len(bikes))
				for _, s := range query.SortEBikesByScore(bikes, ds) {
					sorted = append(sorted, s.EBike)
				}
				return writeTable(out, format, maxWidth, site.RankingColumns(ds, site.LiveLinks{}), sorted)
			}

			cols, err := site.ComponentColumns(cat, site.LiveLinks{})
			if err != nil {
				return err
			}
			items := query.Filter(ds.Components(cat), term)
			items = query.Sort(query.FilterBrand(items, brand), key)
			return writeTable(out, format, maxWidth, cols, items)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or csv")
	cmd.Flags().StringVarP(&term, "search", "s", "", "Only rows whose brand and model contain this text")
	cmd.Flags().StringVar(&brand, "brand", query.AllBrands, "Only components of this brand")
	cmd.Flags().StringVar(&sortKey, "sort", string(query.ByPosition), "Component sort key")
	cmd.Flags().IntVar(&maxWidth, "max-width", 48, "Truncate table cells wider than this (0 = no limit)")

	return cmd
}

func writeTable[T any](out io.Writer, format string, maxWidth int, t render.Table[T], items []T) error {
	if format == "csv" {
		return render.WriteCSV(out, t, items)
	}
	c := render.NewConsole(out)
	c.MaxWidth = maxWidth
	return render.Print(c, t, items)
}
