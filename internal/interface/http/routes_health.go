package http

import (
	"net/http"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot returns basic service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "records-hub",
		"api":     "/api/v1",
		"uptime":  s.Uptime().Round(time.Second).String(),
	})
}

// handleHealth runs all registered health checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// handleReady reports readiness for Kubernetes probes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", status.Message)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// handleLive reports liveness for Kubernetes probes.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"alive": true})
}
