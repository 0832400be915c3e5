package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkordes/product-registry/internal/domain"
)

// DirStore writes photos into a directory that the HTTP server exposes
// under URLPrefix.
type DirStore struct {
	dir       string
	urlPrefix string
}

// NewDirStore creates dir if needed and returns a store serving files under
// urlPrefix (for example "/media").
func NewDirStore(dir, urlPrefix string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("media.NewDirStore: %w", err)
	}
	return &DirStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (d *DirStore) Dir() string { return d.dir }

// Put writes body to <dir>/<name> and returns <urlPrefix>/<name>.
// name must be a bare file name.
func (d *DirStore) Put(ctx context.Context, name, _ string, body io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("media.DirStore.Put: invalid name %q: %w", name, domain.ErrValidation)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("media.DirStore.Put: %w", err)
	}

	f, err := os.CreateTemp(d.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("media.DirStore.Put: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("media.DirStore.Put: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("media.DirStore.Put: close: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(d.dir, name)); err != nil {
		return "", fmt.Errorf("media.DirStore.Put: %w", err)
	}
	return d.urlPrefix + "/" + name, nil
}
