package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/pkordes/product-registry/internal/gateway"
)

// PhotoResponse is the body of POST /photos.
type PhotoResponse struct {
	URL    string         `json:"url"`
	Source gateway.Source `json:"source"`
}

// UploadPhoto handles POST /photos. The multipart field "file" holds the
// image. When the part carries no content type it is sniffed from the data.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		requestError(w, formFileError(err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType, err = sniff(file)
		if err != nil {
			requestError(w, err)
			return
		}
	}

	res, err := s.photos.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		s.serviceError(w, r, err, "photo not found")
		return
	}
	noteSource(r, res.Source)
	writeJSON(w, http.StatusCreated, PhotoResponse{URL: res.Data, Source: res.Source})
}

// sniff detects the content type from the first 512 bytes and rewinds f.
func sniff(f io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// formFileError turns a missing multipart part into a readable message while
// keeping size-limit errors intact.
func formFileError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return errors.New(`multipart field "file" is required`)
}
