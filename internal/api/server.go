package api

import (
	"context"
	"net/http"
	"time"
)

// Server wraps the HTTP server with sane timeouts and graceful shutdown.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer builds the API server around the configured handlers.
func NewServer(h *Handlers) *Server {
	return &Server{handler: SetupRoutes(h)}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe starts the HTTP server on addr and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// Broadcasts fan out synchronously inside the request, so the write
		// timeout must cover N sequential sends, not one.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
