// Package gcs implements port.ObjectStorage on Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"aria/internal/config"
	"aria/internal/port"
)

// openWriter returns a writer for a new object; the write must fail if the key exists.
type openWriter func(ctx context.Context, key, contentType string) io.WriteCloser

type gcsClient struct {
	bucket string
	open   openWriter
	client *storage.Client
}

// NewGCSClient creates a GCS-backed ObjectStorage using application default credentials.
func NewGCSClient(ctx context.Context, cfg *config.GCSConfig) (port.ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is not configured")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	bucket := client.Bucket(cfg.Bucket)
	open := func(ctx context.Context, key, contentType string) io.WriteCloser {
		w := bucket.Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
		w.ContentType = contentType
		return w
	}
	return &gcsClient{bucket: cfg.Bucket, open: open, client: client}, nil
}

func newWithWriter(bucket string, open openWriter) *gcsClient {
	return &gcsClient{bucket: bucket, open: open}
}

// Upload writes the object under a DoesNotExist precondition. A 412 means the
// content-addressed key was already published and is reported as AlreadyExists.
func (c *gcsClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	location := fmt.Sprintf("gs://%s/%s", c.bucket, input.Key)
	w := c.open(ctx, input.Key, input.ContentType)

	if _, err := io.Copy(w, input.Body); err != nil {
		_ = w.Close()
		if isPreconditionFailed(err) {
			return &port.UploadOutput{Location: location, AlreadyExists: true}, nil
		}
		return nil, fmt.Errorf("gcs write: %w", err)
	}

	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			return &port.UploadOutput{Location: location, AlreadyExists: true}, nil
		}
		return nil, fmt.Errorf("gcs finalize: %w", err)
	}

	out := &port.UploadOutput{Location: location}
	if sw, ok := w.(*storage.Writer); ok && sw.Attrs() != nil {
		out.ETag = sw.Attrs().Etag
	}
	return out, nil
}

// Close releases the underlying client.
func (c *gcsClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
