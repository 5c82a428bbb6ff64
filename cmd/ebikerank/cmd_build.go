package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/site"
	"github.com/ebikeratings/ebikerank/internal/sitegen"
	"github.com/ebikeratings/ebikerank/web"
)

func newBuildCommand() *cobra.Command {
	var (
		outDir      string
		assets      []string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export the rankings as a static site",
		Long: `Render every page (rankings, components, one comparison per collection
and one detail page per e-bike and component) as HTML files, copy the
static assets and the data document next to them.

Links between pages are relative, so the output directory can be opened
from disk or uploaded as is (see publish).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.Build.OutputDir = outDir
			}
			if cmd.Flags().Changed("assets") {
				cfg.Build.Assets = assets
			}

			raw, err := os.ReadFile(cfg.Data.File)
			if err != nil {
				return fmt.Errorf("reading data: %w", err)
			}
			ds, err := dataset.LoadFile(cfg.Data.File)
			if err != nil {
				return fmt.Errorf("loading data: %w", err)
			}
			s, err := site.New()
			if err != nil {
				return err
			}

			res, err := sitegen.Build(s, ds, cfg.Build.OutputDir, sitegen.Options{
				Assets:        web.Assets,
				AssetPatterns: cfg.Build.Assets,
				Data:          raw,
				Concurrency:   concurrency,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d files to %s\n", len(res.Files), cfg.Build.OutputDir) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config, dist)")
	cmd.Flags().StringSliceVar(&assets, "assets", nil, "Asset globs to copy (default static/**)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel page writes (default 8)")

	return cmd
}
