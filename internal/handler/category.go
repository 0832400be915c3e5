package handler

import (
	"net/http"

	"github.com/pkordes/product-registry/internal/domain"
)

// CategoryRequest is the body of POST /categories and PUT /categories/{id}.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// CategoryListResponse is the body of GET /categories.
type CategoryListResponse struct {
	Data []domain.ProductCategory `json:"data"`
}

func (req CategoryRequest) toDomain() domain.ProductCategory {
	return domain.ProductCategory{Name: req.Name, Description: req.Description, Color: req.Color}
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.categories.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err, "categories not found")
		return
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Data: cats})
}

// CreateCategory handles POST /categories.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, err)
		return
	}
	created, err := s.categories.Create(r.Context(), req.toDomain())
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetCategory handles GET /categories/{id}.
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}
	c, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCategory handles PUT /categories/{id}.
func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, err)
		return
	}
	c := req.toDomain()
	c.ID = id

	updated, err := s.categories.Update(r.Context(), c)
	if err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /categories/{id}.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}
	if err := s.categories.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
