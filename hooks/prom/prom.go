// Package prom exports cache hook events as Prometheus counters.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/cacheaside"
)

// Error kinds on cacheaside_errors_total.
const (
	KindStore = "store"
	KindCodec = "codec"
)

// Hooks counts cache events. It is safe for concurrent use and never blocks,
// so it can be passed to Options.Hooks directly.
type Hooks struct {
	Hits           prometheus.Counter
	Misses         prometheus.Counter
	Errors         *prometheus.CounterVec // op, kind
	Shared         prometheus.Counter
	Invalidated    prometheus.Counter
	WarmupFailures prometheus.Counter
}

var _ cacheaside.Hooks = (*Hooks)(nil)

// New creates the counters and registers them with reg.
// constLabels distinguish several caches sharing one registry (e.g. {"cache": "ocr"}).
func New(reg prometheus.Registerer, constLabels prometheus.Labels) *Hooks {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cacheaside",
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}

	h := &Hooks{
		Hits:   counter("hits_total", "Reads answered from the store"),
		Misses: counter("misses_total", "Reads that found nothing usable, including failed reads"),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "cacheaside",
			Name:        "errors_total",
			Help:        "Store and codec failures by operation",
			ConstLabels: constLabels,
		}, []string{"op", "kind"}),
		Shared:         counter("fallback_shared_total", "GetOrSet callers served by another caller's fallback"),
		Invalidated:    counter("invalidated_keys_total", "Keys removed by pattern invalidation"),
		WarmupFailures: counter("warmup_failures_total", "Warmup entries that could not be stored"),
	}

	reg.MustRegister(h.Hits, h.Misses, h.Errors, h.Shared, h.Invalidated, h.WarmupFailures)
	return h
}

func (h *Hooks) Hit(string)  { h.Hits.Inc() }
func (h *Hooks) Miss(string) { h.Misses.Inc() }

func (h *Hooks) StoreError(op, _ string, _ error) {
	h.Errors.WithLabelValues(op, KindStore).Inc()
}

func (h *Hooks) CodecError(op, _ string, _ error) {
	h.Errors.WithLabelValues(op, KindCodec).Inc()
}

func (h *Hooks) FallbackShared(string) { h.Shared.Inc() }

func (h *Hooks) PatternInvalidated(_ string, deleted int) {
	if deleted > 0 {
		h.Invalidated.Add(float64(deleted))
	}
}

func (h *Hooks) WarmupPartial(requested, stored int) {
	if n := requested - stored; n > 0 {
		h.WarmupFailures.Add(float64(n))
	}
}
