package core

import (
	"context"
	"io"
)

// FileStorage is any service that can durably store file blobs and serve
// them back. Upload returns an opaque locator (a durable URL or equivalent)
// that Download later resolves to the stored bytes.
type FileStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (locator string, err error)
	Download(ctx context.Context, locator string) (io.ReadCloser, error)
}
