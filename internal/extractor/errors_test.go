package extractor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"aria/internal/extractor"
)

func TestNewRateLimitError_DefaultsRetryAfter(t *testing.T) {
	err := extractor.NewRateLimitError("gemini", errors.New("429"), 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, "gemini", err.Provider)
	assert.Contains(t, err.Error(), "gemini rate limited")
}

func TestRateLimitError_Unwrap(t *testing.T) {
	base := errors.New("base")
	err := extractor.NewRateLimitError("claude", base, 5)

	assert.ErrorIs(t, err, base)
	assert.Equal(t, 5*time.Second, err.RetryAfter)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader(""))
	assert.Equal(t, 30, extractor.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, extractor.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", extractor.Truncate("abc", 5))
	assert.Equal(t, "ab...", extractor.Truncate("abcdef", 2))
}
