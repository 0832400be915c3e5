package service

import (
	"context"
	"fmt"
	"io"

	"github.com/pkordes/product-registry/internal/domain"
	"github.com/pkordes/product-registry/internal/gateway"
	"github.com/pkordes/product-registry/internal/media"
)

// PhotoService accepts image uploads for registrations.
type PhotoService struct {
	store PhotoStore
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(store PhotoStore) *PhotoService {
	return &PhotoService{store: store}
}

// Upload stores an image under a fresh name derived from filename and
// returns its address. Only JPEG, PNG, GIF and WebP are accepted.
func (s *PhotoService) Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (gateway.Result[string], error) {
	if !media.IsImage(contentType) {
		return gateway.Result[string]{}, fmt.Errorf("service.PhotoService.Upload: %w: content type %q is not an image",
			domain.ErrValidation, contentType)
	}
	res, err := s.store.UploadPhoto(ctx, media.ObjectName(filename, contentType), contentType, body)
	if err != nil {
		return gateway.Result[string]{}, fmt.Errorf("service.PhotoService.Upload: %w", err)
	}
	return res, nil
}
