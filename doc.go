// Package cacheaside implements the cache-aside pattern over a remote key-value
// store (Redis). The cache is a skippable optimization: every store or codec
// failure degrades to "miss" or "not stored" and is returned as a typed error the
// caller may log, ignore or escalate. Fallback errors are never swallowed.
//
// Components:
//   - Store: byte store with TTL, SCAN and INFO (store/redis).
//   - Codec[V]: (de)serializes V <-> []byte (codec).
//   - Logger / Hooks: leveled logs and high-signal events (log/*, hooks/*, sloghooks).
//
// Keys:
//
//	<ns>:<key>  - when Options.Namespace is set
//	<key>       - otherwise
//
// Cache-aside:
//
//	v, err := c.GetOrSet(ctx, "ocr:"+docID, func(ctx context.Context) (Result, error) {
//	    return ocr.Extract(ctx, doc) // only on miss; concurrent misses share one call
//	}, cacheaside.DefaultTTL)
//
// Bulk invalidation:
//
//	n, _ := c.InvalidatePattern(ctx, "user:42:*")
package cacheaside
