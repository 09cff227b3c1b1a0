package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"featmap/internal/model"
	"featmap/internal/version"
	"featmap/internal/webassets"
)

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/features.json", s.handleFeatures)
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/", s.handleStatic)
}

// ErrorResponse represents an HTTP error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is supported")
		return
	}

	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.Snapshot()); err != nil {
		s.logger.Error("Could not encode features", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is supported")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"version":  version.Version,
		"features": model.CountFeatures(s.Snapshot()),
	})
}

// handleStatic serves the embedded dashboard; the root path maps to
// index.html.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only GET is supported")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	if name == "" {
		name = "index.html"
	}

	data, ok := webassets.Read(name)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such asset")
		return
	}

	w.Header().Set("Content-Type", webassets.ContentType(name))
	_, _ = w.Write(data)
}
