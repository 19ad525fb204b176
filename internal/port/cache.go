package port

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indicates the key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// ExtractionCache stores validated extraction reports keyed by document digest.
type ExtractionCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
