package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/pkordes/product-registry/internal/gateway"
)

// AddReferenceRequest is the body of POST /reference/{kind}.
type AddReferenceRequest struct {
	Name string `json:"name"`
}

// ReplaceReferenceRequest is the body of PUT /reference/{kind}.
type ReplaceReferenceRequest struct {
	Items []string `json:"items"`
}

// ReferenceListResponse carries one list and the backend that served it.
type ReferenceListResponse struct {
	Data   []string       `json:"data"`
	Source gateway.Source `json:"source"`
}

func referenceList(r *http.Request, res gateway.Result[[]string]) ReferenceListResponse {
	noteSource(r, res.Source)
	data := res.Data
	if data == nil {
		data = []string{}
	}
	return ReferenceListResponse{Data: data, Source: res.Source}
}

// GetReferenceSnapshot handles GET /reference.
func (s *Server) GetReferenceSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.refs.Snapshot(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "reference lists not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ListReference handles GET /reference/{kind}.
func (s *Server) ListReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := referenceKind(w, r)
	if !ok {
		return
	}
	res, err := s.refs.List(r.Context(), kind)
	if err != nil {
		s.serviceError(w, r, err, "reference list not found")
		return
	}
	writeJSON(w, http.StatusOK, referenceList(r, res))
}

// AddReference handles POST /reference/{kind}. Existing items answer 409.
func (s *Server) AddReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := referenceKind(w, r)
	if !ok {
		return
	}
	var req AddReferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, err)
		return
	}
	res, err := s.refs.Add(r.Context(), kind, req.Name)
	if err != nil {
		s.serviceError(w, r, err, "reference list not found")
		return
	}
	writeJSON(w, http.StatusCreated, referenceList(r, res))
}

// ReplaceReference handles PUT /reference/{kind}.
func (s *Server) ReplaceReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := referenceKind(w, r)
	if !ok {
		return
	}
	var req ReplaceReferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, err)
		return
	}
	res, err := s.refs.Replace(r.Context(), kind, req.Items)
	if err != nil {
		s.serviceError(w, r, err, "reference list not found")
		return
	}
	writeJSON(w, http.StatusOK, referenceList(r, res))
}

// DeleteReference handles DELETE /reference/{kind}/{name}.
// Deleting an absent item still answers 204.
func (s *Server) DeleteReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := referenceKind(w, r)
	if !ok {
		return
	}
	var name string
	if err := pathParam(r, "name", &name); err != nil {
		requestError(w, err)
		return
	}
	if _, err := s.refs.Delete(r.Context(), kind, name); err != nil {
		s.serviceError(w, r, err, "reference list not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportReference handles POST /reference/{kind}/import.
// The multipart field "file" holds a .csv or .txt file, one item per line.
func (s *Server) ImportReference(w http.ResponseWriter, r *http.Request) {
	kind, ok := referenceKind(w, r)
	if !ok {
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		requestError(w, formFileError(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		requestError(w, err)
		return
	}
	rep, err := s.imports.Import(r.Context(), kind, header.Filename, content)
	if err != nil {
		s.serviceError(w, r, err, "reference list not found")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// GetReferenceTemplate handles GET /reference/{kind}/template?format=csv|txt.
// The format defaults to csv.
func (s *Server) GetReferenceTemplate(w http.ResponseWriter, r *http.Request) {
	kind, ok := referenceKind(w, r)
	if !ok {
		return
	}
	var format *string
	if err := queryParam(r, "format", &format); err != nil {
		requestError(w, err)
		return
	}
	f := "csv"
	if format != nil {
		f = *format
	}

	tpl, err := s.imports.Template(kind, f)
	if err != nil {
		s.serviceError(w, r, err, "template not found")
		return
	}
	w.Header().Set("Content-Type", tpl.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(tpl.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(tpl.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tpl.Content)
}
