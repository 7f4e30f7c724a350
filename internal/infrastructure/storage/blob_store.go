package storage

import (
	"context"
	"io"
)

// BlobStore holds document bytes. Metadata lives in the database; only the
// opaque blob key crosses this boundary.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
