// Package server hosts the local preview server: a static file server over
// the generated output tree plus a filesystem watcher that rebuilds on
// source changes.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	"github.com/gorilla/mux"
)

const defaultShutdownTimeout = 5 * time.Second

var (
	// ErrOutputDirRequired indicates the server has no directory to serve.
	ErrOutputDirRequired = errors.New("server: output directory is required")
	// ErrAddrRequired indicates the listen address is missing.
	ErrAddrRequired = errors.New("server: listen address is required")
)

// Config controls the preview server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// OutputDir is the generated site tree to serve.
	OutputDir string
	// NoCache adds cache-busting headers to every response so browsers pick
	// up rebuilds immediately.
	NoCache bool
}

// Server serves the output directory over HTTP.
type Server struct {
	cfg    Config
	logger interfaces.Logger
	http   *http.Server
}

// New builds a preview server. A nil logger falls back to no-op.
func New(cfg Config, logger interfaces.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, ErrOutputDirRequired
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, ErrAddrRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	srv := &Server{cfg: cfg, logger: logger}

	router := mux.NewRouter()
	router.PathPrefix("/").Handler(srv.fileHandler())

	srv.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}
	return srv, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listening", "addr", s.cfg.Addr, "dir", s.cfg.OutputDir)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Handler exposes the underlying handler for tests and embedding hosts.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// fileHandler serves the output directory with clean-URL semantics: directory
// requests probe for index.html, listings are disabled, and optional no-cache
// headers support live rebuild workflows.
func (s *Server) fileHandler() http.Handler {
	fileServer := http.FileServer(http.Dir(s.cfg.OutputDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			probe := filepath.Join(s.cfg.OutputDir, filepath.FromSlash(r.URL.Path), "index.html")
			if _, err := os.Stat(probe); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		if s.cfg.NoCache {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		fileServer.ServeHTTP(w, r)
	})
}
