package redis

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/cacheaside"
)

func TestLinearBackOff(t *testing.T) {
	b := &linearBackOff{step: retryStep, max: retryCap}

	var got []time.Duration
	for i := 0; i < 32; i++ {
		got = append(got, b.NextBackOff())
	}
	assert.Equal(t, 100*time.Millisecond, got[0])
	assert.Equal(t, 200*time.Millisecond, got[1])
	assert.Equal(t, 3000*time.Millisecond, got[29])
	assert.Equal(t, 3000*time.Millisecond, got[31], "capped")

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.NextBackOff())
}

type warnLog struct {
	cacheaside.NopLogger
	mu    sync.Mutex
	warns []cacheaside.Fields
}

func (l *warnLog) Warn(_ string, f cacheaside.Fields) {
	l.mu.Lock()
	l.warns = append(l.warns, f)
	l.mu.Unlock()
}

// closedAddr returns an address nothing listens on.
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestDialer_RetriesRefused(t *testing.T) {
	log := &warnLog{}
	dial := newDialer(time.Second, 3, log)

	start := time.Now()
	_, err := dial(context.Background(), "tcp", closedAddr(t))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "refused"), err.Error())

	// 2 retries: 100ms + 200ms
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	assert.Len(t, log.warns, 2)
	assert.Equal(t, 1, log.warns[0]["attempt"])
}

func TestDialer_SucceedsWhenServerAppears(t *testing.T) {
	addr := closedAddr(t)
	dial := newDialer(time.Second, 10, cacheaside.NopLogger{})

	accepted := make(chan struct{})
	go func() {
		time.Sleep(150 * time.Millisecond)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			close(accepted)
			return
		}
		defer ln.Close()
		if c, err := ln.Accept(); err == nil {
			c.Close()
		}
		close(accepted)
	}()

	conn, err := dial(context.Background(), "tcp", addr)
	if err != nil {
		<-accepted
		t.Skipf("port %s was not reusable: %v", addr, err)
	}
	conn.Close()
	<-accepted
}

func TestDialer_ContextStopsRetry(t *testing.T) {
	dial := newDialer(time.Second, 100, cacheaside.NopLogger{})
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := dial(ctx, "tcp", closedAddr(t))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDialer_NoRetry(t *testing.T) {
	log := &warnLog{}
	dial := newDialer(time.Second, 1, log)

	_, err := dial(context.Background(), "tcp", closedAddr(t))
	require.Error(t, err)
	assert.Empty(t, log.warns)
}
