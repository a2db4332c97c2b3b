package server

import (
	"context"
	"net/http"

	"lantern/internal/configuration"
)

// Server encapsulates the HTTP server of the application, providing controlled startup and shutdown.
type Server struct {
	server *http.Server
}

// ListenAndServe starts the HTTP server and blocks until it stops.
// After Shutdown it returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, letting active requests complete
// within the deadline of ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the listen address.
func (s *Server) Address() string {
	return s.server.Addr
}

// NewServer creates a server for the router using the configured address and timeouts.
// Header size is limited to 10 KiB.
func NewServer(config configuration.ServerConfig, router *ApiV1Router) *Server {
	return &Server{&http.Server{
		Addr:           config.Address,
		Handler:        router.Handler(),
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: 1024 * 10,
	}}
}
