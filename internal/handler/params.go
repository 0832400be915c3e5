package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/product-registry/internal/domain"
)

// pathParam binds a required, simple-style path parameter into dest.
// Values are percent-decoded.
func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// queryParam binds an optional, form-style query parameter into dest, which
// must be a pointer to a pointer so absence stays distinguishable.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// referenceKind reads the {kind} path parameter. Unknown lists answer 404.
func referenceKind(w http.ResponseWriter, r *http.Request) (domain.ReferenceKind, bool) {
	var raw string
	if err := pathParam(r, "kind", &raw); err != nil {
		requestError(w, err)
		return "", false
	}
	kind, err := domain.ParseReferenceKind(raw)
	if err != nil {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("unknown reference list %q", raw))
		return "", false
	}
	return kind, true
}

// categoryID reads the {id} path parameter as a UUID.
func categoryID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	if err := pathParam(r, "id", &id); err != nil {
		requestError(w, err)
		return id, false
	}
	return id, true
}

// decodeJSON reads a JSON request body into dest. Unknown fields are rejected.
func decodeJSON(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
