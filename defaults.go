package cacheaside

import "time"

const (
	// DefaultTTL passed as ttl selects the client's Options.DefaultTTL.
	DefaultTTL time.Duration = 0
	// NoExpiration passed as ttl (or Options.DefaultTTL) stores without expiry.
	NoExpiration time.Duration = -1

	defaultEntryTTL          = time.Hour
	defaultWarmupConcurrency = 16
	defaultScanCount         = 100
	delChunk                 = 1000
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
