package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/publish"
	"github.com/ebikeratings/ebikerank/internal/spinner"
)

// EnvConnectionString selects connection-string auth instead of
// DefaultAzureCredential.
const EnvConnectionString = "AZURE_STORAGE_CONNECTION_STRING"

func newPublishCommand() *cobra.Command {
	var (
		dir        string
		accountURL string
		container  string
		prefix     string
		patterns   []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the exported site to Azure Blob static hosting",
		Long: `Upload every file of the build output directory to an Azure Storage
container (by default $web, the static website container) with the right
Content-Type.

Authentication uses DefaultAzureCredential against --account-url, or the
AZURE_STORAGE_CONNECTION_STRING environment variable when it is set.
Use --dry-run to list the files without uploading.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dir") {
				cfg.Build.OutputDir = dir
			}
			if cmd.Flags().Changed("account-url") {
				cfg.Publish.AccountURL = accountURL
			}
			if cmd.Flags().Changed("container") {
				cfg.Publish.Container = container
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Publish.Prefix = prefix
			}

			var up publish.Uploader
			if !dryRun {
				up, err = newUploader(cfg.Publish.AccountURL, cfg.Publish.Container)
				if err != nil {
					return err
				}
			}

			stop := spinner.Start(cmd.ErrOrStderr(), spinner.Static("Uploading "+cfg.Build.OutputDir))
			rep, err := publish.Publish(background(cmd), up, cfg.Build.OutputDir, publish.Options{
				Prefix:      cfg.Publish.Prefix,
				Patterns:    patterns,
				Concurrency: cfg.Publish.Concurrency,
				DryRun:      dryRun,
			})
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range rep.Files {
				fmt.Fprintf(out, "  %s (%s, %d bytes)\n", f.Name, f.ContentType, f.Size) //nolint:errcheck
			}
			verb := "Uploaded"
			if dryRun {
				verb = "Would upload"
			}
			fmt.Fprintf(out, "%s %d files to %s\n", verb, len(rep.Files), cfg.Publish.Container) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Site directory (default from config, dist)")
	cmd.Flags().StringVar(&accountURL, "account-url", "", "Storage account blob endpoint")
	cmd.Flags().StringVar(&container, "container", "", "Container name (default $web)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Blob name prefix")
	cmd.Flags().StringSliceVar(&patterns, "include", nil, "Globs selecting files to upload (default all)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List files without uploading")

	return cmd
}

func newUploader(accountURL, container string) (publish.Uploader, error) {
	if conn := os.Getenv(EnvConnectionString); conn != "" {
		return publish.NewBlobUploaderFromConnectionString(conn, container)
	}
	if accountURL == "" {
		return nil, fmt.Errorf("no storage account: set --account-url, publish.account_url or %s", EnvConnectionString)
	}
	return publish.NewBlobUploader(accountURL, container)
}
