// Package publisher publishes attestation metadata to content-addressable storage.
package publisher

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"aria/internal/domain"
	"aria/internal/port"
)

// Canonical returns the canonical JSON form of the metadata.
func Canonical(metadata *domain.AttestationMetadata) ([]byte, error) {
	return json.Marshal(metadata)
}

// ContentID returns the hex sha256 digest of the canonical JSON.
func ContentID(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// ObjectStorePublisher publishes metadata into a bucket under its own digest.
// Republishing identical metadata resolves to the same object.
type ObjectStorePublisher struct {
	storage  port.ObjectStorage
	provider string
	prefix   string
	baseURL  string
}

// NewObjectStorePublisher creates a publisher over storage. When baseURL is empty
// the storage location is used as the artifact URL.
func NewObjectStorePublisher(storage port.ObjectStorage, provider, prefix, baseURL string) *ObjectStorePublisher {
	return &ObjectStorePublisher{storage: storage, provider: provider, prefix: prefix, baseURL: baseURL}
}

func (p *ObjectStorePublisher) Publish(ctx context.Context, metadata *domain.AttestationMetadata, _ string) (*domain.PublishedArtifact, error) {
	body, err := Canonical(metadata)
	if err != nil {
		return nil, &domain.PublishError{Provider: p.provider, Err: fmt.Errorf("marshaling metadata: %w", err)}
	}
	cid := ContentID(body)
	key := p.prefix + cid + ".json"

	out, err := p.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
		Size:        int64(len(body)),
	})
	if err != nil {
		return nil, &domain.PublishError{Provider: p.provider, Err: err}
	}

	url := out.Location
	if p.baseURL != "" {
		url = p.baseURL + "/" + key
	}
	return &domain.PublishedArtifact{ContentID: cid, URL: url, Provider: p.provider}, nil
}
