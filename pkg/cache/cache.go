// Package cache memoizes extractor output.
//
// Running the dependency extractor is the slowest pipeline stage, and its
// output is a pure function of the workspace contents, the extractor, and the
// exclusion set. The pipeline therefore keys the graph description on a
// workspace fingerprint plus those inputs and stores it in a [Cache].
//
// Caching is an optimization only: every stage works with [NullCache], which
// the CLI uses for --no-cache.
//
// Backends:
//   - [FileCache]: JSON entries under ~/.cache/wsgraph (CLI default)
//   - [RedisCache]: shared cache for CI runners
//   - [MemoryCache]: bounded in-process LRU (preview server, tests)
//   - [NullCache]: disabled
package cache

import (
	"context"
	"time"
)

// Backend names accepted by the configuration layer.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// TTLDescription is how long a cached graph description stays valid.
// Keys already change with the workspace content, so this only bounds growth.
const TTLDescription = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
