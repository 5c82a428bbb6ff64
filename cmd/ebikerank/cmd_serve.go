package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ebikeratings/ebikerank/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var (
		host      string
		port      int
		noWatch   bool
		noBrowser bool
		cors      []string
		jsonLogs  bool
		traces    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rankings site and JSON API",
		Long: `Serve the rankings pages, the static assets, the raw data document
and the JSON API over HTTP.

The data file is loaded on first request and reloaded whenever it changes
on disk (disable with --no-watch). If it cannot be loaded, pages answer
with HTTP 503 until the file is fixed.

Settings come from .ebikerank.yaml, then EBIKERANK_* environment variables,
then flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("cors-origin") {
				cfg.Server.CORSOrigins = cors
			}
			watch := cfg.Server.Watch == nil || *cfg.Server.Watch
			if noWatch {
				watch = false
			}

			logger := slog.Default()
			if jsonLogs {
				logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))
			}

			scfg := webserver.Config{
				Host:        cfg.Server.Host,
				Port:        cfg.Server.Port,
				DataFile:    cfg.Data.File,
				Watch:       watch,
				CORSOrigins: cfg.Server.CORSOrigins,
				NoBrowser:   noBrowser,
				Logger:      logger,
			}
			if traces {
				tp := webserver.NewLogTracerProvider(logger)
				defer func() {
					if err := tp.Shutdown(context.Background()); err != nil {
						logger.Warn("tracer shutdown failed", "error", err)
					}
				}()
				scfg.TracerProvider = tp
			}

			srv, err := webserver.New(scfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Address to bind (default from config, 127.0.0.1)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config, 3000)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the data file when it changes")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not open a browser")
	cmd.Flags().StringSliceVar(&cors, "cors-origin", nil, "Origin allowed to call the API (repeatable)")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "Write request logs as JSON")
	cmd.Flags().BoolVar(&traces, "trace", false, "Log an OpenTelemetry span per request")

	return cmd
}

// background is used when a command runs without a cobra context.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
