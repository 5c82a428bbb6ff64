package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/dataset"
	"github.com/ebikeratings/ebikerank/internal/projectconfig"
)

// loadConfig reads .ebikerank.yaml from the working directory upwards and
// applies the persistent --data flag.
func loadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("data"); f != nil && f.Changed {
		cfg.Data.File = f.Value.String()
	}
	return cfg, nil
}

// loadDataset loads the configured data file.
func loadDataset(cmd *cobra.Command) (*projectconfig.ProjectConfig, *dataset.Dataset, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	ds, err := dataset.LoadFile(cfg.Data.File)
	if err != nil {
		return nil, nil, fmt.Errorf("loading data: %w", err)
	}
	return cfg, ds, nil
}
