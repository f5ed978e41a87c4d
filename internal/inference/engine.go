// Package inference implements the bounded-parallelism engine that wraps an
// opaque model session: a fixed number of concurrent calls into the
// backend, optional shape-keyed memoization, and latency instrumentation.
package inference

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/relieftext/reliefocr/internal/ocrerr"
	"github.com/relieftext/reliefocr/internal/tensor"
)

// Session is the opaque inference backend contract. Implementations wrap a
// model-specific ONNX runtime session; this package never inspects model
// internals.
type Session interface {
	Run(t tensor.Tensor) (tensor.Tensor, error)
	Close() error
}

// Config tunes an Engine.
type Config struct {
	// MaxConcurrency bounds how many Run calls may be in flight against the
	// session at once; extra callers suspend in FIFO order behind a
	// counting semaphore.
	MaxConcurrency int
	// CacheFirst, when true, memoizes results keyed by the input tensor's
	// shape alone (its content is never hashed). Intended for warm-up and
	// fixed-shape repeated-probe workloads, not general traffic, since the
	// cache is unbounded and two different-content calls of the same shape
	// will short-circuit to the same memoized result.
	CacheFirst bool
	// Name labels this engine's metrics (e.g. "detector", "recognizer").
	Name string
}

// Engine runs inference calls against a Session under bounded concurrency.
type Engine struct {
	session Session
	sem     chan struct{}
	cache   map[string]tensor.Tensor
	mu      sync.Mutex
	cfg     Config

	latency *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// New builds an Engine around session. MaxConcurrency <= 0 means unbounded.
func New(session Session, cfg Config) *Engine {
	e := &Engine{session: session, cfg: cfg}
	if cfg.MaxConcurrency > 0 {
		e.sem = make(chan struct{}, cfg.MaxConcurrency)
	}
	if cfg.CacheFirst {
		e.cache = make(map[string]tensor.Tensor)
	}
	e.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reliefocr",
		Subsystem: "inference",
		Name:      "run_seconds",
		Help:      "Latency of inference Session.Run calls, by engine name.",
	}, []string{"engine"})
	e.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "reliefocr",
		Subsystem: "inference",
		Name:      "in_flight",
		Help:      "Number of Run calls currently executing against the engine's session.",
		ConstLabels: prometheus.Labels{"engine": cfg.Name},
	})
	return e
}

// Collectors returns this engine's prometheus collectors for registration.
func (e *Engine) Collectors() []prometheus.Collector {
	return []prometheus.Collector{e.latency, e.inFlight}
}

// Run executes t against the wrapped session, respecting the configured
// concurrency bound and cache. It returns a wrapped ocrerr.ErrInferenceFailed
// on backend error, or ocrerr.ErrCancelled if ctx is done before a semaphore
// slot becomes available.
func (e *Engine) Run(ctx context.Context, t tensor.Tensor) (tensor.Tensor, error) {
	if e.cfg.CacheFirst {
		key := cacheKey(t)
		e.mu.Lock()
		if cached, ok := e.cache[key]; ok {
			e.mu.Unlock()
			return cached, nil
		}
		e.mu.Unlock()
	}

	if e.sem != nil {
		select {
		case e.sem <- struct{}{}:
			defer func() { <-e.sem }()
		case <-ctx.Done():
			return tensor.Tensor{}, fmt.Errorf("inference: waiting for slot: %w", ocrerr.ErrCancelled)
		}
	}

	e.inFlight.Inc()
	defer e.inFlight.Dec()

	timer := prometheus.NewTimer(e.latency.WithLabelValues(e.cfg.Name))
	out, err := e.session.Run(t)
	timer.ObserveDuration()
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("inference: session run: %w: %w", ocrerr.ErrInferenceFailed, err)
	}

	if e.cfg.CacheFirst {
		key := cacheKey(t)
		e.mu.Lock()
		e.cache[key] = out
		e.mu.Unlock()
	}
	return out, nil
}

// Close releases the underlying session.
func (e *Engine) Close() error { return e.session.Close() }

// Concurrency returns the engine's configured MaxConcurrency, or a
// conservative default if the engine is unbounded. Callers that fan work out
// into their own goroutines ahead of Run (e.g. orchestrate's per-region
// recognizer stage) use this to size their own fan-out to the engine's
// actual capacity instead of guessing.
func (e *Engine) Concurrency() int {
	if e.cfg.MaxConcurrency > 0 {
		return e.cfg.MaxConcurrency
	}
	return 4
}

// cacheKey is keyed on shape alone, per spec: two Run calls against
// same-shaped tensors hit the same cache entry regardless of content.
func cacheKey(t tensor.Tensor) string {
	return fmt.Sprint(t.Shape)
}
