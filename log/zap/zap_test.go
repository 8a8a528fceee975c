package zap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/cacheaside"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Warn("store get failed", cacheaside.Fields{"key": "doc:1", "err": errors.New("refused")})
	l.Debug("pattern invalidated", cacheaside.Fields{"pattern": "doc:*", "count": int64(3)})
	l.Info("no fields", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	warn := entries[0]
	assert.Equal(t, zapcore.WarnLevel, warn.Level)
	assert.Equal(t, "cacheaside", warn.LoggerName)
	ctx := warn.ContextMap()
	assert.Equal(t, "doc:1", ctx["key"])
	assert.Equal(t, "refused", ctx["err"])
	assert.Equal(t, "err", warn.Context[0].Key, "fields are ordered by key")

	assert.Equal(t, int64(3), entries[1].ContextMap()["count"])
	assert.Empty(t, entries[2].Context)
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := New(zap.New(core))

	l.Debug("dropped", nil)
	l.Info("dropped", nil)
	l.Error("kept", cacheaside.Fields{"op": "close"})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "close", logs.All()[0].ContextMap()["op"])
}

func TestNew_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { New(nil).Warn("x", cacheaside.Fields{"k": 1}) })
}
