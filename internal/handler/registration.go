package handler

import (
	"net/http"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
)

// CreateRegistrationRequest is the body of POST /registrations.
// The server assigns the ID and timestamps.
type CreateRegistrationRequest struct {
	User     string `json:"user"`
	Product  string `json:"product"`
	Location string `json:"location"`
	Purpose  string `json:"purpose"`
	PhotoURL string `json:"photo_url,omitempty"`
	QRCode   string `json:"qr_code,omitempty"`
}

// RegistrationResponse wraps one registration with the backend that stored it.
type RegistrationResponse struct {
	Data   domain.Registration `json:"data"`
	Source gateway.Source      `json:"source"`
}

// Pagination describes the window a list response covers.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// RegistrationListResponse is the body of GET /registrations.
type RegistrationListResponse struct {
	Data       []domain.Registration `json:"data"`
	Pagination Pagination            `json:"pagination"`
	Source     gateway.Source        `json:"source"`
}

// CreateRegistration handles POST /registrations.
func (s *Server) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		requestError(w, err)
		return
	}

	res, err := s.regs.Create(r.Context(), domain.Registration{
		User:     req.User,
		Product:  req.Product,
		Location: req.Location,
		Purpose:  req.Purpose,
		PhotoURL: req.PhotoURL,
		QRCode:   req.QRCode,
	})
	if err != nil {
		s.serviceError(w, r, err, "registration not found")
		return
	}
	noteSource(r, res.Source)
	writeJSON(w, http.StatusCreated, RegistrationResponse{Data: res.Data, Source: res.Source})
}

// ListRegistrations handles GET /registrations.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := queryParam(r, "page", &page); err != nil {
		requestError(w, err)
		return
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		requestError(w, err)
		return
	}
	params := domain.NewPaginationParams(page, limit)

	res, err := s.regs.List(r.Context(), params)
	if err != nil {
		s.serviceError(w, r, err, "registrations not found")
		return
	}
	noteSource(r, res.Source)
	writeJSON(w, http.StatusOK, RegistrationListResponse{
		Data: res.Items,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: res.Total,
		},
		Source: res.Source,
	})
}
