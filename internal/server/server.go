// Package server implements the web dashboard and JSON API for previewing
// Open Graph metadata.
package server

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/lepinkainen/og-previewer/internal/config"
	"github.com/lepinkainen/og-previewer/pkg/guide"
	"github.com/lepinkainen/og-previewer/pkg/opengraph"
)

// shutdownTimeout bounds how long in-flight previews may finish after the context ends
const shutdownTimeout = 10 * time.Second

// Previewer produces the preview result for a raw URL
type Previewer interface {
	Preview(ctx context.Context, rawURL string) opengraph.Result
}

// Server serves the dashboard
type Server struct {
	config    *config.Config
	logger    *slog.Logger
	previewer Previewer
	guide     *guide.Guide
	index     *template.Template
	mux       *http.ServeMux
}

// New creates a dashboard server
func New(cfg *config.Config, logger *slog.Logger, previewer Previewer, g *guide.Guide) (*Server, error) {
	index, err := loadTemplate(IndexTemplate)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		previewer: previewer,
		guide:     g,
		index:     index,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Dashboard pages
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /preview", s.handlePreview)

	// JSON API
	s.mux.HandleFunc("GET /api/og", s.handleAPIOpenGraph)
	s.mux.HandleFunc("GET /api/guide", s.handleAPIGuide)
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	return Recover(s.logger, Logging(s.logger, s.mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting dashboard", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Stopping dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
