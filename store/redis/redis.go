package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cacheaside"
	"github.com/unkn0wn-root/cacheaside/config"
	"github.com/unkn0wn-root/cacheaside/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// Redis is a store.Store over go-redis. Scan enumerates a single node; with a
// cluster client pattern invalidation only sees the node the command lands on.
type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ store.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Dial builds an owned client from resolved configuration. No connection is
// attempted here; the pool dials lazily and retries refused connections in the
// background (see newDialer), so an unreachable server surfaces only as errors
// from individual operations.
func Dial(cfg config.Config, log cacheaside.Logger) *Redis {
	if log == nil {
		log = cacheaside.NopLogger{}
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		Dialer:       newDialer(cfg.DialTimeout, cfg.DialAttempts, log),
	})
	return &Redis{rdb: client, closeClient: true}
}

// Client exposes the underlying client, e.g. for health checks.
func (p *Redis) Client() goredis.UniversalClient { return p.rdb }

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0 // go-redis: 0 => no expiry; negative would mean KEEPTTL
	}
	return p.rdb.Set(ctx, key, value, ttl).Err()
}

func (p *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return p.rdb.Del(ctx, keys...).Result()
}

func (p *Redis) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	return p.rdb.Scan(ctx, cursor, match, count).Result()
}

func (p *Redis) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		// PERSIST answers false for a key without TTL; report existence instead.
		if _, err := p.rdb.Persist(ctx, key).Result(); err != nil {
			return false, err
		}
		n, err := p.rdb.Exists(ctx, key).Result()
		return n > 0, err
	}
	return p.rdb.Expire(ctx, key, ttl).Result()
}

func (p *Redis) Info(ctx context.Context) (string, error) {
	return p.rdb.Info(ctx).Result()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
