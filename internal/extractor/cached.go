package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"aria/internal/domain"
	"aria/internal/port"
)

// CachedExtractor serves repeated submissions of identical bytes from an
// ExtractionCache. Cache failures never fail the extraction.
type CachedExtractor struct {
	next  port.Extractor
	cache port.ExtractionCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedExtractor wraps next with a cache lookup.
func NewCachedExtractor(next port.Extractor, cache port.ExtractionCache, ttl time.Duration, log zerolog.Logger) *CachedExtractor {
	return &CachedExtractor{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "extractor.cache").Logger(),
	}
}

type cachedReport struct {
	Report    domain.ExtractionReport `json:"report"`
	ModelUsed string                  `json:"model_used"`
}

// CacheKey returns the cache key for a document.
func CacheKey(contentType string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(contentType))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CachedExtractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	key := CacheKey(input.ContentType, input.Data)

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var hit cachedReport
		if jsonErr := json.Unmarshal(raw, &hit); jsonErr == nil {
			c.log.Debug().Str("key", key).Msg("extraction cache hit")
			return &port.ExtractOutput{Report: hit.Report, ModelUsed: hit.ModelUsed}, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	case !errors.Is(err, port.ErrCacheMiss):
		c.log.Warn().Err(err).Msg("extraction cache lookup failed")
	}

	out, err := c.next.Extract(ctx, input)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedReport{Report: out.Report, ModelUsed: out.ModelUsed})
	if err == nil {
		err = c.cache.Set(ctx, key, payload, c.ttl)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("extraction cache store failed")
	}
	return out, nil
}
