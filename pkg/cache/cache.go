// Package cache stores justified pages and rendered artifacts by content key.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] derives keys from everything that influences a result: the text
// hash, the font hash, the goal width, the variation set and the search
// settings. Two runs that would produce the same page share a key.
//
//	k := cache.NewDefaultKeyer()
//	key := k.PageKey(cache.Hash([]byte(text)), cache.PageKeyOpts{FontHash: f.Hash(), Goal: 1800})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
}

// Open returns the cache described by opts. An empty backend selects the
// file cache.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.RedisAddr)
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, ErrUnknownBackend
}
