package redis

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/unkn0wn-root/cacheaside"
)

const (
	retryStep = 100 * time.Millisecond
	retryCap  = 3000 * time.Millisecond
)

// linearBackOff waits attempt*step, capped at max.
type linearBackOff struct {
	step, max time.Duration
	attempt   int
}

var _ backoff.BackOff = (*linearBackOff)(nil)

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	d := time.Duration(b.attempt) * b.step
	if d > b.max {
		return b.max
	}
	return d
}

func (b *linearBackOff) Reset() { b.attempt = 0 }

// newDialer returns a go-redis Dialer that retries refused connections with
// linear backoff. Any other dial error fails immediately; attempts <= 1 disables retry.
func newDialer(timeout time.Duration, attempts int, log cacheaside.Logger) func(ctx context.Context, network, addr string) (net.Conn, error) {
	d := &net.Dialer{Timeout: timeout, KeepAlive: 5 * time.Minute}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if attempts <= 1 {
			return d.DialContext(ctx, network, addr)
		}
		var b backoff.BackOff = &linearBackOff{step: retryStep, max: retryCap}
		b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)

		attempt := 0
		return backoff.RetryNotifyWithData(func() (net.Conn, error) {
			attempt++
			conn, err := d.DialContext(ctx, network, addr)
			if err != nil && !errors.Is(err, syscall.ECONNREFUSED) {
				return nil, backoff.Permanent(err)
			}
			return conn, err
		}, b, func(err error, wait time.Duration) {
			log.Warn("redis dial refused; retrying", cacheaside.Fields{
				"addr": addr, "attempt": attempt, "wait": wait, "err": err,
			})
		})
	}
}
