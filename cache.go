package cacheaside

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/cacheaside/codec"
	"github.com/unkn0wn-root/cacheaside/internal/util"
	"github.com/unkn0wn-root/cacheaside/store"
)

var ErrNilFallback = errors.New("cacheaside: fallback is required")

type cache[V any] struct {
	ns          string
	store       store.Store
	codec       codec.Codec[V]
	log         Logger
	hooks       Hooks
	enabled     bool
	defaultTTL  time.Duration
	stampede    bool
	warmupLimit int
	scanCount   int64

	// in-flight fallbacks keyed by storage key
	flight singleflight.Group

	closeOnce sync.Once
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, ErrNilStore
	}
	if opts.Codec == nil {
		return nil, ErrNilCodec
	}

	c := &cache[V]{
		ns:       opts.Namespace,
		store:    opts.Store,
		codec:    opts.Codec,
		enabled:  !opts.Disabled,
		stampede: opts.AllowStampede,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultTTL = coalesce(opts.DefaultTTL, defaultEntryTTL)
	c.warmupLimit = coalesce(opts.WarmupConcurrency, defaultWarmupConcurrency)
	c.scanCount = coalesce(opts.ScanCount, int64(defaultScanCount))

	return c, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

// Close closes the store once. Later calls return nil.
func (c *cache[V]) Close(ctx context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		if cerr := c.store.Close(ctx); cerr != nil {
			err = c.storeFailed("close", "", "", cerr)
		}
	})
	return err
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if !c.enabled {
		return zero, false, nil
	}
	k := c.storageKey(key)
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.hooks.Miss(k)
		return zero, false, c.storeFailed("get", key, k, err)
	}
	if !ok {
		c.hooks.Miss(k)
		return zero, false, nil
	}
	v, err := c.codec.Decode(raw)
	if err != nil {
		c.hooks.Miss(k)
		return zero, false, c.codecFailed("decode", key, k, err)
	}
	c.hooks.Hit(k)
	return v, true, nil
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	return c.set(ctx, key, value, ttl)
}

func (c *cache[V]) set(ctx context.Context, key string, value V, ttl time.Duration) error {
	k := c.storageKey(key)
	b, err := c.codec.Encode(value)
	if err != nil {
		return c.codecFailed("encode", key, k, err)
	}
	if err := c.store.Set(ctx, k, b, c.ttl(ttl)); err != nil {
		return c.storeFailed("set", key, k, err)
	}
	return nil
}

// GetOrSet: a failed read is treated as a miss, a failed write-back is only
// logged. Unless AllowStampede is set, concurrent misses for the same key in
// this process share one fallback run. The shared run keeps the values of the
// ctx that started it but not its cancellation, so one caller giving up never
// fails the others. A caller whose own ctx ends returns ctx.Err(). A panic in
// a shared fallback reaches every waiting caller as *PanicError.
func (c *cache[V]) GetOrSet(ctx context.Context, key string, fallback Fallback[V], ttl time.Duration) (V, error) {
	var zero V
	if fallback == nil {
		return zero, ErrNilFallback
	}
	if v, ok, _ := c.Get(ctx, key); ok {
		return v, nil
	}
	if c.stampede || !c.enabled {
		return c.fill(ctx, key, fallback, ttl)
	}

	k := c.storageKey(key)
	leader := false
	ch := c.flight.DoChan(k, func() (v any, err error) {
		leader = true
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Key: key, Value: r, Stack: debug.Stack()}
				c.log.Error("fallback panicked", Fields{"key": key, "err": err})
			}
		}()
		return c.fill(context.WithoutCancel(ctx), key, fallback, ttl)
	})
	select {
	case res := <-ch:
		if !leader {
			c.hooks.FallbackShared(k)
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *cache[V]) fill(ctx context.Context, key string, fallback Fallback[V], ttl time.Duration) (V, error) {
	v, err := fallback(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	if c.enabled {
		if err := c.set(ctx, key, v, ttl); err != nil {
			c.log.Debug("write-back after fallback skipped", Fields{"key": key})
		}
	}
	return v, nil
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	k := c.storageKey(key)
	if _, err := c.store.Del(ctx, k); err != nil {
		return c.storeFailed("del", key, k, err)
	}
	return nil
}

func (c *cache[V]) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	k := c.storageKey(key)
	ok, err := c.store.Expire(ctx, k, c.ttl(ttl))
	if err != nil {
		return c.storeFailed("expire", key, k, err)
	}
	if !ok {
		c.log.Debug("expire on missing key", Fields{"key": key})
	}
	return nil
}

// InvalidatePattern enumerates first and deletes after, so the cursor is never
// disturbed by its own deletes. Keys written during the scan may survive.
func (c *cache[V]) InvalidatePattern(ctx context.Context, pattern string) (int, error) {
	if !c.enabled {
		return 0, nil
	}
	match := util.NamespacedPattern(c.ns, pattern)

	seen := make(map[string]struct{})
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.store.Scan(ctx, cursor, match, c.scanCount)
		if err != nil {
			return 0, c.storeFailed("scan", pattern, match, err)
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	var deleted int64
	for start := 0; start < len(keys); start += delChunk {
		n, err := c.store.Del(ctx, keys[start:min(start+delChunk, len(keys))]...)
		deleted += n
		if err != nil {
			// earlier chunks are gone; callers only see 0 and the error
			c.hooks.PatternInvalidated(match, int(deleted))
			c.log.Warn("pattern invalidation incomplete", Fields{"pattern": match, "matched": len(keys), "count": deleted})
			return 0, c.storeFailed("del", pattern, match, err)
		}
	}
	c.hooks.PatternInvalidated(match, int(deleted))
	c.log.Debug("pattern invalidated", Fields{"pattern": match, "matched": len(keys), "count": deleted})
	return int(deleted), nil
}

func (c *cache[V]) Warmup(ctx context.Context, entries map[string]V, ttl time.Duration) (int, error) {
	if !c.enabled || len(entries) == 0 {
		return 0, nil
	}

	var (
		stored atomic.Int64
		mu     sync.Mutex
		errs   []error
		g      errgroup.Group
	)
	g.SetLimit(c.warmupLimit)
	for key, v := range entries {
		key, v := key, v
		g.Go(func() error {
			if err := c.set(ctx, key, v, ttl); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil // partial failure is not fatal
			}
			stored.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(stored.Load())
	if n < len(entries) {
		c.hooks.WarmupPartial(len(entries), n)
		c.log.Warn("warmup incomplete", Fields{"requested": len(entries), "count": n})
	}
	return n, errors.Join(errs...)
}

func (c *cache[V]) Stats(ctx context.Context) (Stats, error) {
	if !c.enabled {
		return Stats{}, nil
	}
	info, err := c.store.Info(ctx)
	if err != nil {
		return Stats{}, c.storeFailed("info", "", "", err)
	}
	return parseInfo(info), nil
}

// ttl maps the public TTL encoding onto the store's: > 0 expires, <= 0 persists.
func (c *cache[V]) ttl(ttl time.Duration) time.Duration {
	if ttl == DefaultTTL {
		ttl = c.defaultTTL
	}
	if ttl < 0 {
		return 0
	}
	return ttl
}

func (c *cache[V]) storageKey(userKey string) string {
	return util.Namespaced(c.ns, userKey)
}

func (c *cache[V]) storeFailed(op, key, storageKey string, err error) error {
	c.log.Warn("store "+op+" failed", Fields{"key": key, "err": err})
	c.hooks.StoreError(op, storageKey, err)
	return &StoreError{Op: op, Key: key, Err: err}
}

func (c *cache[V]) codecFailed(op, key, storageKey string, err error) error {
	c.log.Warn("value "+op+" failed", Fields{"key": key, "err": err})
	c.hooks.CodecError(op, storageKey, err)
	return &CodecError{Op: op, Key: key, Err: err}
}
