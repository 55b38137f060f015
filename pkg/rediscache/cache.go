// Package rediscache implements core.Cache against go-redis, plus a
// pass-through no-op implementation used when REDIS_URL is unset
// (spec.md §6).
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	core "nsresolve/core"
)

// Cache backs core.Cache with a single go-redis client.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

var _ core.Cache = (*Cache)(nil)

// New connects to the redis instance described by url (a standard
// redis://[:password@]host:port/db URL).
func New(url string, logger *zap.Logger) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: redis.NewClient(opts), logger: logger}, nil
}

// Get reads key, reporting found=false on a cache miss (redis.Nil) and
// propagating any other backend error.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	switch {
	case err == redis.Nil:
		c.logger.Debug("cache miss", zap.String("key", key))
		return "", false, nil
	case err != nil:
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	c.logger.Debug("cache hit", zap.String("key", key))
	return value, true, nil
}

// Set writes key/value with the given TTL. A zero or negative TTL is
// treated as "no expiry", matching go-redis's own convention.
func (c *Cache) Set(ctx context.Context, key, value string, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error { return c.client.Close() }

// Noop is a pass-through core.Cache used when no REDIS_URL is configured
// (spec.md §6): every read is a miss and every write is discarded, so the
// assembler still functions, just without caching.
type Noop struct{}

var _ core.Cache = Noop{}

func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (Noop) Set(context.Context, string, string, int) error    { return nil }
