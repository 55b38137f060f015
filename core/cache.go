package core

import "context"

// Cache is the key/value/TTL interface the profile assembler reads
// through and writes behind. Concrete backends (Redis, no-op
// pass-through) live in pkg/rediscache; core only depends on this
// interface, matching the teacher's storage.go abstraction
// (orbas1-Synnergy/synnergy-network/core/storage.go).
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttlSeconds int) error
}

// CacheObserver receives opaque hit/miss notifications from the
// assembler's cache read-through, mirroring the BulkSink pattern
// (core/bulk.go) so core stays dependency-light: concrete counters
// (internal/metrics) are wired in by the outer layers.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// Cache key prefixes and TTLs, per spec.md §3.
const (
	addressCacheKeyPrefix = "a:"
	nameCacheKeyPrefix    = "n:"

	addressCacheTTLSeconds = 600

	// negativeCacheTTLSeconds is this implementation's resolution of
	// spec.md §9's open question on the negative (NotFound) cache TTL:
	// a conservative 120s, well inside the documented 60-300s band and
	// never exceeding the positive profile TTL.
	negativeCacheTTLSeconds = 120
)

func addressCacheKey(addr Address) string {
	return addressCacheKeyPrefix + addr.Hex()
}

func nameCacheKey(name string) string {
	return nameCacheKeyPrefix + name
}
