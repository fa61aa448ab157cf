// Package api exposes viewer preferences over HTTP.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CreativeUnicorns/viewerprefs"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	manager      *viewerprefs.Manager
	logger       viewerprefs.Logger
	router       *chi.Mux
	httpServer   *http.Server
	secureCookie bool

	// done is closed when shutdown starts, ending open event streams.
	done     chan struct{}
	doneOnce sync.Once
}

// Config holds configuration for the API server.
type Config struct {
	ListenAddress string
	Manager       *viewerprefs.Manager
	Logger        viewerprefs.Logger
	// SecureCookies marks the viewer_id cookie Secure; enable behind TLS.
	SecureCookies bool
}

// NewServer creates and configures a new API server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Manager == nil {
		return nil, fmt.Errorf("manager is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Manager.Logger()
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}

	s := &Server{
		manager:      cfg.Manager,
		logger:       cfg.Logger,
		router:       chi.NewRouter(),
		secureCookie: cfg.SecureCookies,
		done:         make(chan struct{}),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: s.router,
		// WriteTimeout is lifted per request by the event stream.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.httpServer.RegisterOnShutdown(s.closeStreams)

	return s, nil
}

// Handler returns the routed handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until it is shut down. A graceful
// shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Serve accepts connections on ln until the server is shut down. A graceful
// shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("API server starting", "address", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func (s *Server) closeStreams() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("API server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped gracefully")
	return nil
}
