package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// BackendResponse describes the remote connection handle.
// ErrorKind is the classification of the last failed attempt; the error
// text itself stays in the logs.
type BackendResponse struct {
	State     string     `json:"state"`
	ErrorKind string     `json:"error_kind,omitempty"`
	ChangedAt *time.Time `json:"changed_at,omitempty"`
}

// GetBackend handles GET /backend.
func (s *Server) GetBackend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, backendResponse(s.backend.Status()))
}

// ReconnectBackend handles POST /backend/reconnect.
// The response reports the outcome; a failed attempt is still a 200.
func (s *Server) ReconnectBackend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, backendResponse(s.backend.Reconnect(r.Context())))
}

func backendResponse(st gateway.Status) BackendResponse {
	resp := BackendResponse{State: st.State.String()}
	if st.LastError != nil {
		resp.ErrorKind = domain.KindOf(st.LastError).String()
	}
	if !st.ChangedAt.IsZero() {
		t := st.ChangedAt.UTC()
		resp.ChangedAt = &t
	}
	return resp
}
