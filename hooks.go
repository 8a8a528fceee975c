package cacheaside

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths; wrap slow sinks with hooks/async.
type Hooks interface {
	// Get found the key.
	Hit(storageKey string)
	// Get did not find the key (including misses caused by errors).
	Miss(storageKey string)

	// A store round-trip failed.
	// op ∈ {"get", "set", "del", "scan", "expire", "info", "close"}
	StoreError(op, storageKey string, err error)

	// A value failed to encode or a payload failed to decode.
	// op ∈ {"encode", "decode"}
	CodecError(op, storageKey string, err error)

	// A GetOrSet caller received the result of a fallback started by another caller.
	FallbackShared(storageKey string)

	// InvalidatePattern finished; deleted is the store-reported count.
	PatternInvalidated(pattern string, deleted int)

	// Warmup wrote fewer entries than requested.
	WarmupPartial(requested, stored int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string)                       {}
func (NopHooks) Miss(string)                      {}
func (NopHooks) StoreError(string, string, error) {}
func (NopHooks) CodecError(string, string, error) {}
func (NopHooks) FallbackShared(string)            {}
func (NopHooks) PatternInvalidated(string, int)   {}
func (NopHooks) WarmupPartial(int, int)           {}
