package dataflow

import "context"

// Split routes each In item to one of two output channels based on a
// predicate, preserving the original arrival order on each branch
// independently.
type Split[In any] struct {
	base
}

// NewSplit starts a Split block. pred returning true routes to the left
// (first) output, false to the right (second).
func NewSplit[In any](ctx context.Context, in <-chan In, capacity int, pred func(In) bool) (*Split[In], <-chan In, <-chan In) {
	s := &Split[In]{base: newBase()}
	left := make(chan In, capacity)
	right := make(chan In, capacity)
	go func() {
		defer close(left)
		defer close(right)
		for v := range in {
			var dst chan In
			if pred(v) {
				dst = left
			} else {
				dst = right
			}
			select {
			case dst <- v:
			case <-ctx.Done():
				s.failAndComplete(ctx.Err())
				return
			}
		}
		s.complete()
	}()
	return s, left, right
}

// Merge pairs two input channels positionally: the Nth value read from left
// is joined with the Nth value read from right via join, in lockstep. Unlike
// a fan-in select, Merge is non-greedy — it blocks on whichever side is
// slower rather than emitting items as they arrive — since a mismatched pair
// (the detector's Nth box joined with the recognizer's Mth decode) is
// useless to the caller.
type Merge[L, R, Out any] struct {
	base
}

// NewMerge starts a Merge block. It reads one value from left and one from
// right, calls join, emits the result, and repeats until either side closes.
// Left is read first: if left is closed, right is not read again; if right
// is closed, the left value read in that round is dropped unpaired.
func NewMerge[L, R, Out any](ctx context.Context, left <-chan L, right <-chan R, capacity int, join func(L, R) Out) (*Merge[L, R, Out], <-chan Out) {
	m := &Merge[L, R, Out]{base: newBase()}
	out := make(chan Out, capacity)
	go func() {
		defer close(out)
		for {
			var l L
			var r R
			var lok, rok bool
			select {
			case l, lok = <-left:
			case <-ctx.Done():
				m.failAndComplete(ctx.Err())
				return
			}
			if !lok {
				m.complete()
				return
			}
			select {
			case r, rok = <-right:
			case <-ctx.Done():
				m.failAndComplete(ctx.Err())
				return
			}
			if !lok || !rok {
				m.complete()
				return
			}
			select {
			case out <- join(l, r):
			case <-ctx.Done():
				m.failAndComplete(ctx.Err())
				return
			}
		}
	}()
	return m, out
}

// ForkJoin splits each In item into two derived values via forkA/forkB,
// processes each branch's stream independently (the caller wires whatever
// Transform/Action chain it needs onto leftOut/rightOut), and joins matching
// branch outputs back into a single Out value keyed by arrival order. This
// is the shape the orchestration layer uses to run per-image metadata
// alongside a per-box tensor batch through the recognizer stage.
type ForkJoin[In, A, B, Out any] struct {
	base
}

// NewForkJoin starts a ForkJoin block. forkA/forkB derive each branch's
// value from the input; joinFn recombines the two branch outputs (which the
// caller has already run through its own processing, passed back in via
// leftIn/rightIn) into the final Out value.
func NewForkJoin[In, A, B, Out any](
	ctx context.Context,
	in <-chan In,
	capacity int,
	forkA func(In) A,
	forkB func(In) B,
	leftProcess func(<-chan A) <-chan A,
	rightProcess func(<-chan B) <-chan B,
	joinFn func(A, B) (Out, error),
) (*ForkJoin[In, A, B, Out], <-chan Out) {
	fj := &ForkJoin[In, A, B, Out]{base: newBase()}

	aIn := make(chan A, capacity)
	bIn := make(chan B, capacity)
	go func() {
		defer close(aIn)
		defer close(bIn)
		for v := range in {
			select {
			case aIn <- forkA(v):
			case <-ctx.Done():
				return
			}
			select {
			case bIn <- forkB(v):
			case <-ctx.Done():
				return
			}
		}
	}()

	aOut := leftProcess(aIn)
	bOut := rightProcess(bIn)

	out := make(chan Out, capacity)
	go func() {
		defer close(out)
		for {
			a, aok := <-aOut
			b, bok := <-bOut
			if !aok || !bok {
				fj.complete()
				return
			}
			joined, err := joinFn(a, b)
			if err != nil {
				fj.failAndComplete(err)
				return
			}
			select {
			case out <- joined:
			case <-ctx.Done():
				fj.failAndComplete(ctx.Err())
				return
			}
		}
	}()

	return fj, out
}
