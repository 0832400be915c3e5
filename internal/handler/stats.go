package handler

import (
	"net/http"
	"strconv"
)

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	sum, err := s.stats.Summary(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "statistics not found")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GetStatsReport handles GET /stats/report.pdf.
func (s *Server) GetStatsReport(w http.ResponseWriter, r *http.Request) {
	pdf, err := s.stats.ReportPDF(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "statistics not found")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="registry-stats.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
