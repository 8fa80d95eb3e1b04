package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedFormat is returned for uploads whose extension is not an
// accepted image format.
var ErrUnsupportedFormat = errors.New("unsupported image format: allowed jpg, jpeg, png")

// allowedExtensions mirrors the accepted upload formats.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// DiskStore keeps uploaded images on the local filesystem and serves them
// under a public base URL (the router mounts the directory).
type DiskStore struct {
	dir     string
	baseURL string // e.g. "http://localhost:8000/uploads"
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", dir, err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

var _ BlobStore = (*DiskStore)(nil)

// Upload stores the image under a fresh object name (uuid + original
// extension) and returns its public URL.
func (s *DiskStore) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedFormat
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create blob %q: %w", dst, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write blob %q: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close blob %q: %w", dst, err)
	}

	return s.baseURL + "/" + name, nil
}

// Delete removes the object identified by assetID, whatever its extension.
// A missing object is not an error.
func (s *DiskStore) Delete(ctx context.Context, assetID string) error {
	if assetID == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// assetID carries no extension; match any stored variant.
	matches, err := filepath.Glob(filepath.Join(s.dir, assetID+".*"))
	if err != nil {
		return fmt.Errorf("glob blob %q: %w", assetID, err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove blob %q: %w", m, err)
		}
	}
	return nil
}

// Dir returns the directory backing the store, for static mounting.
func (s *DiskStore) Dir() string { return s.dir }
