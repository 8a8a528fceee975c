package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/cacheaside"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery   uint64
	MissEvery  uint64
	ErrorEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr   atomic.Uint64
	missCtr  atomic.Uint64
	errorCtr atomic.Uint64
}

var _ cacheaside.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Hit(storageKey string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("cacheaside.hit", "key", h.redact(storageKey))
}

func (h *Hooks) Miss(storageKey string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("cacheaside.miss", "key", h.redact(storageKey))
}

func (h *Hooks) StoreError(op, storageKey string, err error) {
	if h.l == nil || !sample(h.opts.ErrorEvery, &h.errorCtr) {
		return
	}
	h.l.Warn("cacheaside.store_error",
		"op", op,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) CodecError(op, storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("cacheaside.codec_error",
		"op", op,
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) FallbackShared(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("cacheaside.fallback_shared", "key", h.redact(storageKey))
}

// Patterns are logged as given; they name key families, not single entries.
func (h *Hooks) PatternInvalidated(pattern string, deleted int) {
	if h.l == nil {
		return
	}
	h.l.Info("cacheaside.pattern_invalidated",
		"pattern", pattern,
		"count", deleted)
}

func (h *Hooks) WarmupPartial(requested, stored int) {
	if h.l == nil {
		return
	}
	h.l.Warn("cacheaside.warmup_partial",
		"requested", requested,
		"count", stored)
}
