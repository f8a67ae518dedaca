package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/locapro/partner-api/spec"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// GetHealth handles GET /healthz.
// It returns 200 {"status":"ok"} when the server is running and, if a
// database is wired, reachable; otherwise 503.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.svc.DB == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.DB.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml with the document embedded in the binary.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
