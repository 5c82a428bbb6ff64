// Package webserver serves the rendered pages, the static assets, the data
// file and the JSON API.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ebikeratings/ebikerank/internal/webapi"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host     string
	Port     int
	DataFile string
	// Watch reloads the data file when it changes on disk.
	Watch bool
	// CORSOrigins lists origins allowed to call the API. Empty means
	// same-origin only.
	CORSOrigins []string
	NoBrowser   bool
	Logger      *slog.Logger
	// TracerProvider receives one span per request. Nil uses the global
	// provider, which discards spans unless the process installs one.
	TracerProvider trace.TracerProvider
}

// Server wraps the HTTP server with configuration.
type Server struct {
	cfg    Config
	srv    *http.Server
	store  *webapi.FileStore
	logger *slog.Logger
}

// New creates a new HTTP server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.DataFile == "" {
		cfg.DataFile = "ebike-data.json"
	}

	store := webapi.NewFileStore(cfg.DataFile, cfg.Logger)
	mux := http.NewServeMux()
	if err := registerRoutes(mux, store, cfg.Logger); err != nil {
		return nil, err
	}

	handler := Chain(mux,
		Recover(cfg.Logger),
		RequestID(),
		Logger(cfg.Logger),
		OTel("ebikerank", cfg.TracerProvider),
		Gzip(),
	)

	return &Server{
		cfg:    cfg,
		store:  store,
		logger: cfg.Logger,
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
			Handler:           webapi.CORSMiddleware(handler, cfg.CORSOrigins...),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe binds the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	url := fmt.Sprintf("http://%s", ln.Addr())
	fmt.Printf("ebikerank: %s\n", url)
	if !s.cfg.NoBrowser {
		// Open browser in background after a short delay.
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := openBrowser(url); err != nil {
				s.logger.Debug("failed to open browser", "error", err)
			}
		}()
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and, when configured, watches the data
// file. Both stop when ctx is cancelled or either fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("HTTP server starting", "address", ln.Addr().String(), "data", s.cfg.DataFile)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	if s.cfg.Watch {
		g.Go(func() error {
			return s.store.Watch(gctx)
		})
	}
	// Graceful shutdown on context cancellation.
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})
	return g.Wait()
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
