package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"aria/internal/cache/redis"
	"aria/internal/config"
)

func TestNewCache_Unreachable(t *testing.T) {
	_, err := redis.NewCache(context.Background(), &config.CacheConfig{Addr: "127.0.0.1:1"})

	assert.ErrorContains(t, err, "redis ping failed")
}
