package publisher

import (
	"context"
	"fmt"

	"aria/internal/config"
	"aria/internal/port"
	"aria/internal/publisher/pinata"
	"aria/internal/storage/gcs"
	"aria/internal/storage/s3"
)

// New builds the publisher selected by cfg.Provider.
func New(ctx context.Context, cfg *config.PublisherConfig) (port.Publisher, error) {
	switch cfg.Provider {
	case "", pinata.ProviderName:
		return pinata.NewPublisher(&cfg.Pinata), nil
	case "s3":
		store, err := s3.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewObjectStorePublisher(store, "s3", cfg.S3.Prefix, cfg.S3.PublicBaseURL), nil
	case "gcs":
		store, err := gcs.NewGCSClient(ctx, &cfg.GCS)
		if err != nil {
			return nil, err
		}
		baseURL := cfg.GCS.PublicBaseURL
		if baseURL == "" {
			baseURL = "https://storage.googleapis.com/" + cfg.GCS.Bucket
		}
		return NewObjectStorePublisher(store, "gcs", cfg.GCS.Prefix, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown publisher provider: %s", cfg.Provider)
	}
}
