// Package store defines the remote key-value boundary used by cacheaside.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key. The cache layers
// serialization, namespacing and TTL policy on top; the store only moves bytes.
package store

import (
	"context"
	"time"
)

// Store is a networked byte store with TTLs, cursor-based key enumeration and a
// free-form status report. Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value, replacing any previous value and TTL.
	// ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Scan returns one batch of keys matching the glob pattern and the cursor
	// for the next batch. A returned cursor of 0 means enumeration is complete.
	// Batches may repeat keys.
	Scan(ctx context.Context, cursor uint64, match string, count int64) (keys []string, next uint64, err error)

	// Expire resets the TTL of an existing key; ttl <= 0 removes the expiry.
	// Returns false when the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Info returns the store's free-form "name:value" status report.
	Info(ctx context.Context) (string, error)

	// Close releases resources. Safe to call more than once.
	Close(ctx context.Context) error
}
