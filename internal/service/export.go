package service

import (
	"context"
	"fmt"
)

// ExportRow is one registration flattened for export.
type ExportRow struct {
	ID          string `json:"id"`
	User        string `json:"user"`
	Product     string `json:"product"`
	Location    string `json:"location"`
	Purpose     string `json:"purpose"`
	CreatedAt   string `json:"created_at"`
	DisplayDate string `json:"display_date"`
	DisplayTime string `json:"display_time"`
	PhotoURL    string `json:"photo_url"`
	QRCode      string `json:"qr_code"`
}

// ExportService assembles a full flat export of the registration history.
type ExportService struct {
	store RegistrationStore
}

// NewExportService constructs an ExportService backed by the provided store.
func NewExportService(store RegistrationStore) *ExportService {
	return &ExportService{store: store}
}

// Export returns one ExportRow per registration, newest first.
// Timestamps are RFC 3339 in UTC.
func (s *ExportService) Export(ctx context.Context) ([]ExportRow, error) {
	res, err := s.store.ListRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	rows := make([]ExportRow, 0, len(res.Data))
	for _, r := range res.Data {
		rows = append(rows, ExportRow{
			ID:          r.ID,
			User:        r.User,
			Product:     r.Product,
			Location:    r.Location,
			Purpose:     r.Purpose,
			CreatedAt:   r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			DisplayDate: r.DisplayDate,
			DisplayTime: r.DisplayTime,
			PhotoURL:    r.PhotoURL,
			QRCode:      r.QRCode,
		})
	}
	return rows, nil
}
