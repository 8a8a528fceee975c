package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/cacheaside"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	cause := errors.New("refused")
	l.Warn("store set failed", cacheaside.Fields{"key": "doc:1", "err": cause})

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, logrus.WarnLevel, e.Level)
	assert.Equal(t, "store set failed", e.Message)
	assert.Equal(t, "cacheaside", e.Data["component"])
	assert.Equal(t, "doc:1", e.Data["key"])
	assert.Equal(t, cause, e.Data[logrus.ErrorKey])

	l.Debug("plain", nil)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Len(t, hook.Entries, 2)
}

func TestLogrusLogger_Levels(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	l := New(base)

	l.Debug("dropped", cacheaside.Fields{"a": 1})
	l.Info("info", nil)
	l.Error("error", cacheaside.Fields{"op": "close"})

	require.Len(t, hook.Entries, 2)
	assert.Equal(t, logrus.InfoLevel, hook.Entries[0].Level)
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[1].Level)
	assert.Equal(t, "close", hook.Entries[1].Data["op"])
}
