// Package cache stores derived artifacts between CLI runs.
//
// The main user is the visibility graph of a task: joining every pair of
// nodes past all obstacles costs O(n² · obstacles), so the CLI keeps the
// resulting edge list keyed by a hash of the task geometry.
//
// # Implementations
//
//   - [FileCache]: one JSON file per entry below a directory, with optional
//     expiry
//   - [NullCache]: stores nothing, used by --no-cache
//
// # Keys
//
// [Key] hashes arbitrary JSON-encodable parts under a readable prefix. The
// prefix doubles as the key type reported to cache hooks.
//
//	key := cache.Key("graph", t.Nodes, t.Walls, t.Circles, t.MaxDist)
//	snap, ok, err := cache.GetJSON[graph.Snapshot](ctx, c, key)
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. A miss is reported by ok == false with
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// GetJSON reads key and decodes it into a T. Undecodable entries are
// reported as misses.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, nil
	}
	return v, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}

// NullCache is a no-op cache that never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
