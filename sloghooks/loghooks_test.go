package sloghooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSON(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestRedactsKeys(t *testing.T) {
	var buf bytes.Buffer
	h := New(newJSON(&buf), Options{})

	h.StoreError("get", "user:42:ssn", errors.New("refused"))

	recs := lines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "cacheaside.store_error", recs[0]["msg"])
	assert.Equal(t, "WARN", recs[0]["level"])
	assert.Equal(t, "get", recs[0]["op"])
	assert.Equal(t, "refused", recs[0]["err"])
	assert.Len(t, recs[0]["key"], 16)
	assert.NotContains(t, buf.String(), "user:42")
}

func TestCustomRedactor(t *testing.T) {
	var buf bytes.Buffer
	h := New(newJSON(&buf), Options{Redact: func(k string) string { return "<" + k + ">" }})

	h.Miss("doc:1")

	recs := lines(t, &buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "<doc:1>", recs[0]["key"])
}

func TestSampling(t *testing.T) {
	var buf bytes.Buffer
	h := New(newJSON(&buf), Options{HitEvery: 10})

	for i := 0; i < 25; i++ {
		h.Hit("k")
	}
	assert.Len(t, lines(t, &buf), 2)
}

func TestBulkEvents(t *testing.T) {
	var buf bytes.Buffer
	h := New(newJSON(&buf), Options{})

	h.PatternInvalidated("llm:user:42:*", 7)
	h.WarmupPartial(10, 6)

	recs := lines(t, &buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "llm:user:42:*", recs[0]["pattern"])
	assert.EqualValues(t, 7, recs[0]["count"])
	assert.EqualValues(t, 10, recs[1]["requested"])
	assert.EqualValues(t, 6, recs[1]["count"])
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	assert.NotPanics(t, func() {
		h.Hit("k")
		h.CodecError("decode", "k", errors.New("x"))
		h.WarmupPartial(1, 0)
	})
}
