// Package media stores uploaded photos and returns an address for each.
// S3Store is the remote store; DirStore writes into a local directory and is
// the fallback when S3 is not configured or unreachable.
package media

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Store accepts a named blob and returns the address it can be fetched from.
type Store interface {
	Put(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// imageTypes lists the accepted upload types and the file extensions each
// may be stored under. The first extension is the canonical one. SVG is
// excluded since it can carry script.
var imageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

func mediaType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// IsImage reports whether contentType is one of the accepted raster image
// types.
func IsImage(contentType string) bool {
	_, ok := imageTypes[mediaType(contentType)]
	return ok
}

// ObjectName returns a fresh collision-free name for an upload. The
// lower-cased extension of the original file name is kept when it matches
// contentType; otherwise the type's canonical extension is used, so a stored
// object is never served as anything but an image.
func ObjectName(original, contentType string) string {
	exts := imageTypes[mediaType(contentType)]
	ext := strings.ToLower(filepath.Ext(original))
	if !slices.Contains(exts, ext) {
		ext = ""
		if len(exts) > 0 {
			ext = exts[0]
		}
	}
	return uuid.NewString() + ext
}
