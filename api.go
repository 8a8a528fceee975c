package cacheaside

import (
	"context"
	"time"

	"github.com/unkn0wn-root/cacheaside/codec"
	"github.com/unkn0wn-root/cacheaside/store"
)

// Fallback computes a value on a cache miss (an OCR call, an LLM completion, a
// database aggregation). Its error is returned to the GetOrSet caller unchanged.
type Fallback[V any] func(ctx context.Context) (V, error)

// Cache is the cache-aside API over a remote store. V is the caller's value
// type; serialization is handled by a pluggable codec.Codec[V].
//
// Every method returns the safe default (miss, nothing stored, 0, empty Stats)
// together with a typed error when the store or codec fails. Callers that want
// the cache to be invisible ignore the error; the failure has already been
// logged and reported to Hooks.
type Cache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns (v, true, nil) on hit and (zero, false, nil) on miss.
	// Store failures return *StoreError, undecodable payloads *CodecError; both with ok=false.
	Get(ctx context.Context, key string) (v V, ok bool, err error)

	// Set writes value under key, replacing any value and TTL.
	// ttl: DefaultTTL (0) => Options.DefaultTTL; NoExpiration (<0) => never expires.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// GetOrSet returns the cached value or, on any miss (including a failed read),
	// the result of fallback, which is then written back best-effort.
	GetOrSet(ctx context.Context, key string, fallback Fallback[V], ttl time.Duration) (V, error)

	Delete(ctx context.Context, key string) error

	// Expire resets the TTL of an existing key. A missing key is not an error.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// InvalidatePattern deletes every key matching the glob pattern
	// (scoped to the namespace) and returns how many were removed.
	// Any store error returns 0; Hooks.PatternInvalidated still reports keys
	// removed before a failed delete.
	InvalidatePattern(ctx context.Context, pattern string) (int, error)

	// Warmup writes all entries concurrently and returns how many succeeded.
	// The error joins the individual failures.
	Warmup(ctx context.Context, entries map[string]V, ttl time.Duration) (int, error)

	// Stats reports allow-listed store metrics and the derived hit rate.
	Stats(ctx context.Context) (Stats, error)
}

// Options tune the behavior of the cache.
// Only Store and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	Store store.Store
	Codec codec.Codec[V]

	Namespace         string        // optional key prefix, e.g. "ocr", "llm:summary"
	Logger            Logger        // if nil, NopLogger is used
	Hooks             Hooks         // if nil, NopHooks is used
	DefaultTTL        time.Duration // 0 => 1h; NoExpiration => entries never expire
	Disabled          bool          // default false (enabled); disabled = always miss, never store
	AllowStampede     bool          // default false => concurrent misses share one fallback
	WarmupConcurrency int           // 0 => 16 concurrent writes
	ScanCount         int64         // SCAN COUNT hint; 0 => 100
}

// New builds a cache. It performs no I/O; an unreachable store surfaces only
// as errors from individual operations.
func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
