// Package ocrerr defines the sentinel error kinds shared across the reliefocr
// pipeline. Stages wrap one of these with fmt.Errorf's %w verb so callers can
// classify failures with errors.Is regardless of which stage produced them.
package ocrerr

import "errors"

var (
	// ErrInvalidInput marks a caller-supplied argument that cannot be
	// processed at all: a nil image, a zero-area tensor, an empty dictionary.
	ErrInvalidInput = errors.New("ocrerr: invalid input")

	// ErrDegenerateGeometry marks a shape that failed a geometric
	// precondition (fewer than 3 hull points, zero-area rectangle, polygon
	// self-intersection). Detection and recognition code must absorb this
	// error internally and drop the offending region; it must never escape
	// ExtractBoxes or Crop.
	ErrDegenerateGeometry = errors.New("ocrerr: degenerate geometry")

	// ErrInferenceFailed marks a failure inside the opaque inference
	// session (a backend error, shape mismatch, or session not ready).
	ErrInferenceFailed = errors.New("ocrerr: inference failed")

	// ErrCancelled marks a stage that unwound because its context was
	// cancelled, or a multiplexer slot that was rescinded before its
	// request reached the shared pipeline.
	ErrCancelled = errors.New("ocrerr: cancelled")

	// ErrMultiplexerFault marks a fault on the shared pipeline behind a
	// Multiplexer. A MultiplexerFault poisons every pending caller; new
	// submissions are rejected until the multiplexer is rebuilt.
	ErrMultiplexerFault = errors.New("ocrerr: multiplexer fault")
)

// Kind reports which sentinel, if any, wraps err.
func Kind(err error) error {
	for _, k := range []error{ErrInvalidInput, ErrDegenerateGeometry, ErrInferenceFailed, ErrCancelled, ErrMultiplexerFault} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
