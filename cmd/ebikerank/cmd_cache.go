package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/cache"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the review page cache",
		Long: `Manage the review page cache.

The cache stores review pages fetched by enrich so repeated runs do not hit
the same sites again. Pages are keyed by URL and expire after
cache.max_age (default 7 days).`,
	}

	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the review page cache",
		Long: `Clear all cached review pages.

The next enrich run fetches every review page again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cache-dir") {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				cacheDir = cfg.Cache.Dir
			}

			// Resolve to absolute path
			absDir, err := filepath.Abs(cacheDir)
			if err != nil {
				return fmt.Errorf("resolving cache directory: %w", err)
			}

			c := cache.New(absDir)
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default from config, .ebikerank-cache)")

	return cmd
}
