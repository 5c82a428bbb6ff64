package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/projectconfig"
	"github.com/ebikeratings/ebikerank/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		yes   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .ebikerank.yaml project file",
		Long: `Create a .ebikerank.yaml project file.

By default a short guided form asks for the data file, server port, build
output directory, storage account and the collection to enrich. Use --yes
to write the defaults without asking.

If no directory is specified, the current directory is used. An existing
file is only replaced with --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create the root directory if it doesn't exist
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
			path := filepath.Join(dir, projectconfig.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			answers := wizard.Defaults(projectconfig.New())
			if !yes {
				var err error
				answers, err = wizard.Run(cmd.InOrStdin(), cmd.OutOrStdout(), answers)
				if err != nil {
					return err
				}
			}

			content, err := wizard.GenerateConfig(answers)
			if err != nil {
				return fmt.Errorf("failed to generate %s: %w", projectconfig.FileName, err)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write the defaults without asking")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")

	return cmd
}
