package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/product-registry/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeValidation         = "validation_error"
	codeDuplicate          = "duplicate"
	codeUnsupportedFormat  = "unsupported_format"
	codeBackendUnavailable = "backend_unavailable"
	codePayloadTooLarge    = "payload_too_large"
	codeInternal           = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestError reports a body or parameter rejected before reaching the
// service layer.
func requestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusUnprocessableEntity, codeValidation, err.Error())
}

// serviceError maps a service error onto a response. notFound is the message
// used for domain.ErrNotFound, since only the handler knows what was being
// looked up. Anything unrecognised is logged and answered with a generic 500.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicate):
		writeError(w, http.StatusConflict, codeDuplicate, "item already exists")
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, codeUnsupportedFormat, unwrapMessage(err, domain.ErrUnsupportedFormat))
	case isUnavailable(err):
		writeError(w, http.StatusServiceUnavailable, codeBackendUnavailable, "remote store is not available")
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func isUnavailable(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindNotConfigured, domain.KindNotFound, domain.KindTransient:
		return true
	}
	return false
}

// unwrapMessage extracts the human-readable part of a wrapped sentinel error,
// dropping the "pkg.Type.Method: " operation prefixes.
// e.g. "service.ReferenceService.Add: validation error: name is required" -> "name is required"
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || !isOpName(head) {
			break
		}
		msg = rest
	}
	return strings.TrimSuffix(msg, ": "+sentinel.Error())
}

func isOpName(s string) bool {
	return strings.Contains(s, ".") && !strings.ContainsAny(s, " \t")
}
