package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/webapi"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebikerank",
		Short: "ebikerank - e-bike and component rankings",
		Long: `ebikerank serves and exports e-bike rankings built from a JSON data
document of e-bikes and their components (motors, batteries, brakes and
suspensions).

Every e-bike gets a composite score from the ratings of its components.
The rankings can be browsed live, exported as a static site, published
to Azure Blob static hosting or printed in the terminal.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("data", "", "Data file (overrides .ebikerank.yaml)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if *debugLogging {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	}

	// Add subcommands
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newPublishCommand())
	cmd.AddCommand(newRankCommand())
	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newEnrichCommand())
	cmd.AddCommand(newCacheCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	webapi.Version = version
	rootCmd := newRootCommand()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}
