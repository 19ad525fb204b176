package port

import (
	"context"
	"io"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload. AlreadyExists is set
// when the backend reported that an object with this key was already stored.
type UploadOutput struct {
	Location      string
	ETag          string
	AlreadyExists bool
}

// ObjectStorage abstracts the bucket behind a content-addressed publisher.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}
