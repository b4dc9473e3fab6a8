// Package server wraps the MCP streamable HTTP handler with the
// operational surface a deployed instance needs: request logging,
// panic recovery, correlation IDs, and a health endpoint for container
// wait strategies.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/parks-mcp/internal/common"
)

// Server manages the HTTP transport.
type Server struct {
	name    string
	version string
	server  *http.Server
	logger  *common.Logger
}

// New creates the HTTP server. The MCP handler is mounted at /mcp;
// /healthz answers liveness probes.
func New(port, name, version string, mcpHandler http.Handler, logger *common.Logger) *Server {
	s := &Server{
		name:    name,
		version: version,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/mcp", mcpHandler)

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info().
		Str("address", s.server.Addr).
		Str("endpoint", "/mcp").
		Msg("HTTP transport starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP transport")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"name":    s.name,
		"version": s.version,
	})
}
