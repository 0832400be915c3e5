package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/product-registry/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "user", "product", "location", "purpose",
	"created_at", "display_date", "display_time", "photo_url", "qr_code",
}

// GetExport handles GET /export.
// It returns every registration as a flat table, newest first.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := queryParam(r, "format", &format); err != nil {
		requestError(w, err)
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "format must be json or csv")
			return
		}
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "registrations not found")
		return
	}

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeCSV encodes rows as CSV with a header row.
func writeCSV(w http.ResponseWriter, rows []service.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	// bytes.Buffer writes never fail.
	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write(exportRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// exportRowToCSVRecord encodes a service.ExportRow as a flat string slice in
// csvHeaders order.
func exportRowToCSVRecord(r service.ExportRow) []string {
	return []string{
		r.ID,
		csvCell(r.User),
		csvCell(r.Product),
		csvCell(r.Location),
		csvCell(r.Purpose),
		r.CreatedAt,
		r.DisplayDate,
		r.DisplayTime,
		csvCell(r.PhotoURL),
		csvCell(r.QRCode),
	}
}

// csvCell prefixes user-entered text that a spreadsheet would read as a
// formula with a single quote.
func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
