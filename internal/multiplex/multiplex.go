// Package multiplex correlates many concurrent callers onto one shared
// pipeline. Each Submit call is assigned a monotonically increasing sequence
// number, which is the sole correctness mechanism for matching a result back
// to its caller; a request ID appears only in cancellation error messages.
package multiplex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/relieftext/reliefocr/internal/ocrerr"
)

// Pipeline is the shared worker a Multiplexer feeds. It must process exactly
// one In per call and produce exactly one Out, in the order it is invoked;
// the Multiplexer guarantees single-caller access, so Process itself need
// not be concurrency-safe against itself (though it may run concurrently
// with the Multiplexer's own bookkeeping).
type Pipeline[In, Out any] func(ctx context.Context, in In) (Out, error)

// future is a two-level completion signal: a submitter first waits for
// Accepted, confirming the multiplexer admitted the request before any
// result exists, and then waits for Done, which carries the result or a
// fault.
type future[Out any] struct {
	accepted chan struct{}
	done     chan result[Out]
}

type result[Out any] struct {
	value Out
	err   error
}

// Multiplexer serializes concurrent Submit calls through one Pipeline.
type Multiplexer[In, Out any] struct {
	pipeline Pipeline[In, Out]
	log      *slog.Logger

	mu       sync.Mutex
	seq      atomic.Uint64
	pending  map[uint64]*future[Out]
	faulted  bool
	faultErr error

	in chan submission[In, Out]
}

type submission[In, Out any] struct {
	seq   uint64
	value In
	fut   *future[Out]
}

// New builds a Multiplexer around pipeline with the given inbound queue
// depth, and starts its single reader goroutine.
func New[In, Out any](pipeline Pipeline[In, Out], queueDepth int, log *slog.Logger) *Multiplexer[In, Out] {
	if log == nil {
		log = slog.Default()
	}
	m := &Multiplexer[In, Out]{
		pipeline: pipeline,
		log:      log,
		pending:  make(map[uint64]*future[Out]),
		in:       make(chan submission[In, Out], queueDepth),
	}
	go m.run()
	return m
}

// Submit enqueues value for processing and blocks until a result (or fault)
// is available. Cancellation before acceptance returns ocrerr.ErrCancelled:
// if the value has not yet entered the inbound queue it is never processed;
// if it is already queued, the pipeline still processes it later and the
// result is discarded. Cancellation after acceptance is ignored and the
// normal result is returned.
func (m *Multiplexer[In, Out]) Submit(ctx context.Context, value In) (Out, error) {
	var zero Out

	m.mu.Lock()
	if m.faulted {
		err := m.faultErr
		m.mu.Unlock()
		return zero, fmt.Errorf("multiplex: pipeline already faulted: %w: %w", ocrerr.ErrMultiplexerFault, err)
	}
	m.mu.Unlock()

	seq := m.seq.Add(1)
	fut := &future[Out]{accepted: make(chan struct{}), done: make(chan result[Out], 1)}
	reqID := uuid.NewString()

	select {
	case m.in <- submission[In, Out]{seq: seq, value: value, fut: fut}:
	case <-ctx.Done():
		return zero, fmt.Errorf("multiplex: submit seq=%d req=%s: %w", seq, reqID, ocrerr.ErrCancelled)
	}

	select {
	case <-fut.accepted:
	case <-ctx.Done():
		return zero, fmt.Errorf("multiplex: accept seq=%d req=%s: %w", seq, reqID, ocrerr.ErrCancelled)
	}

	// Once accepted, the shared pipeline is already committed to processing
	// this submission alongside whatever else is queued behind it; the
	// caller no longer has anything to withdraw, so cancellation past this
	// point is ignored and the normal result is always returned.
	r := <-fut.done
	if r.err != nil {
		return zero, r.err
	}
	return r.value, nil
}

// run is the multiplexer's single reader: it pulls one submission at a
// time, marks it accepted, runs the shared pipeline, and publishes the
// result. Any pipeline error poisons every other pending submission with
// ocrerr.ErrMultiplexerFault, since a shared-session failure likely means
// every subsequent call on that session will fail too.
func (m *Multiplexer[In, Out]) run() {
	for sub := range m.in {
		m.mu.Lock()
		if m.faulted {
			err := m.faultErr
			m.mu.Unlock()
			close(sub.fut.accepted)
			sub.fut.done <- result[Out]{err: fmt.Errorf("multiplex: pipeline already faulted: %w: %w", ocrerr.ErrMultiplexerFault, err)}
			continue
		}
		m.pending[sub.seq] = sub.fut
		m.mu.Unlock()
		close(sub.fut.accepted)

		out, err := m.pipeline(context.Background(), sub.value)

		m.mu.Lock()
		delete(m.pending, sub.seq)
		if err != nil {
			m.faulted = true
			m.faultErr = err
			faultedErr := fmt.Errorf("multiplex: shared pipeline faulted: %w: %w", ocrerr.ErrMultiplexerFault, err)
			for _, other := range m.pending {
				other.done <- result[Out]{err: faultedErr}
			}
			m.pending = make(map[uint64]*future[Out])
			m.mu.Unlock()
			sub.fut.done <- result[Out]{err: faultedErr}
			m.log.Error("multiplexer fault", "seq", sub.seq, "error", err)
			continue
		}
		m.mu.Unlock()
		sub.fut.done <- result[Out]{value: out}
	}
}
