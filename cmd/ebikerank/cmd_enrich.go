package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/cache"
	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/enrich"
	"github.com/ebikeratings/ebikerank/internal/spinner"
)

func newEnrichCommand() *cobra.Command {
	var (
		category string
		output   string
		reviews  string
		rate     float64
		maxURLs  int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fill missing component ratings from review pages",
		Long: `Look up review pages for every component of one collection that has no
rating yet, scrape a score out of each page and store the average as the
component's valutazione. Components with no review or no readable score
get "N/A".

Review URLs come from a YAML file mapping "<brand> <model> review" to a
list of URLs. Fetched pages are cached on disk (see cache clear).

The updated document is written to a separate output file with the field
order of the input preserved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("category") {
				cfg.Enrich.Category = category
			}
			if flags.Changed("output") {
				cfg.Enrich.Output = output
			}
			if flags.Changed("reviews") {
				cfg.Enrich.Reviews = reviews
			}
			if flags.Changed("rate") {
				cfg.Enrich.Rate = rate
			}
			if flags.Changed("max-urls") {
				cfg.Enrich.MaxURLs = maxURLs
			}

			cat, err := dataset.ParseCategory(cfg.Enrich.Category)
			if err != nil {
				return err
			}
			if same, err := samePath(cfg.Data.File, cfg.Enrich.Output); err != nil {
				return err
			} else if same {
				return fmt.Errorf("output %s would overwrite the data file", cfg.Enrich.Output)
			}

			doc, err := dataset.ReadDocumentFile(cfg.Data.File)
			if err != nil {
				return err
			}
			src, err := enrich.LoadStaticSource(cfg.Enrich.Reviews)
			if err != nil {
				return err
			}

			pages := cache.New("")
			if !noCache && (cfg.Cache.Enabled == nil || *cfg.Cache.Enabled) {
				pages = cache.New(cfg.Cache.Dir)
				pages.MaxAge = cfg.Cache.MaxAge
			}
			e := &enrich.Enricher{
				Source: src,
				Fetcher: enrich.NewFetcher(enrich.FetcherOptions{
					UserAgent: cfg.Enrich.UserAgent,
					Rate:      cfg.Enrich.Rate,
					Cache:     pages,
				}),
				MaxURLs: cfg.Enrich.MaxURLs,
			}

			stop := spinner.Start(cmd.ErrOrStderr(), spinner.Static("Looking up reviews: "+strings.ToLower(cat.Label())))
			rep, err := e.Run(background(cmd), doc, cat)
			stop()
			if err != nil {
				return err
			}
			if err := doc.Save(cfg.Enrich.Output); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, o := range rep.Outcomes {
				value := enrich.NotAvailable
				if o.Found {
					value = fmt.Sprintf("%.1f", o.Rating)
				}
				fmt.Fprintf(out, "  %s %s: %s\n", o.ID, o.Name, value) //nolint:errcheck
			}
			fmt.Fprintf(out, "%s: %d rated, %d not found, %d already rated. Wrote %s\n", //nolint:errcheck
				cat.Label(), rep.Rated(), len(rep.Outcomes)-rep.Rated(), rep.Skipped, cfg.Enrich.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Collection to enrich (default motori)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default ebike-data-updated.json)")
	cmd.Flags().StringVar(&reviews, "reviews", "", "Review source file (default reviews.yaml)")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Requests per second (default 1)")
	cmd.Flags().IntVar(&maxURLs, "max-urls", 0, "Review pages scraped per component (default 3)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not read or write the page cache")

	return cmd
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
