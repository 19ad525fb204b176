package gcs

import (
	"context"
	"io"

	"aria/internal/port"
)

// NewWithWriter exposes the writer seam to external tests.
func NewWithWriter(bucket string, open func(ctx context.Context, key, contentType string) io.WriteCloser) port.ObjectStorage {
	return newWithWriter(bucket, open)
}
