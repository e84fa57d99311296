// Package server serves the browser UI and JSON API for generating maintenance scripts.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/pgmaint/internal/advisor"
)

// maxBodyBytes bounds pasted input accepted by the handlers.
const maxBodyBytes = 1 << 20

// Server is the HTTP front end.
type Server struct {
	addr    string
	advisor *advisor.Service
	logger  *slog.Logger
	handler http.Handler
}

// Config holds configuration for the server.
type Config struct {
	Addr    string
	Advisor *advisor.Service
	Logger  *slog.Logger
}

// New creates a server and builds its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Advisor == nil {
		return nil, fmt.Errorf("advisor service is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		addr:    cfg.Addr,
		advisor: cfg.Advisor,
		logger:  logger,
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.handler = s.routes(tmpl)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) routes(tmpl *pageTemplates) http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
	)

	p := &pages{tmpl: tmpl, advisor: s.advisor, logger: s.logger}
	r.Get("/", p.index)
	r.Post("/", p.generate)
	r.Post("/advice", p.advice)

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", p.apiParse)
		r.Post("/advice", p.apiAdvice)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
