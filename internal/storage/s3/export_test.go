package s3

import "aria/internal/port"

// NewWithUploader exposes the uploader seam to external tests.
func NewWithUploader(bucket string, u uploader) port.ObjectStorage {
	return newWithUploader(bucket, u)
}
