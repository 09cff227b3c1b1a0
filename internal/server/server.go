// Package server serves the feature tree over HTTP: the current
// snapshot as /features.json, a health endpoint, and the embedded
// dashboard. The snapshot is replaced wholesale after each re-scan.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"featmap/internal/logging"
	"featmap/internal/model"
)

// Server represents the HTTP server
type Server struct {
	router *http.ServeMux
	server *http.Server
	addr   string
	logger *logging.Logger

	mu       sync.RWMutex
	features []model.Feature
}

// NewServer creates a new HTTP server instance holding the initial
// feature snapshot.
func NewServer(addr string, features []model.Feature, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		addr:     addr,
		logger:   logger,
		features: features,
		router:   http.NewServeMux(),
	}

	s.registerRoutes()

	handler := s.applyMiddleware(s.router)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Update swaps in a freshly scanned feature tree.
func (s *Server) Update(features []model.Feature) {
	s.mu.Lock()
	s.features = features
	s.mu.Unlock()

	s.logger.Info("Feature snapshot updated", map[string]interface{}{
		"features": model.CountFeatures(features),
	})
}

// Snapshot returns the current feature tree.
func (s *Server) Snapshot() []model.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.addr,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully", nil)
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler with middleware in the correct order
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last one wraps first)
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}
