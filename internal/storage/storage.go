package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// BlobStore holds binary assets (post images) and hands back a public URL.
// Deletion addresses an asset by its derived id, not the full URL.
type BlobStore interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, assetID string) error
}

// AssetID derives the store-internal identifier from a stored image
// reference: the last path segment without its file extension.
func AssetID(ref string) string {
	base := path.Base(ref)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
