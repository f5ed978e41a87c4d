// Package orchestrate wires the detector, geometry, and recognizer stages
// into the end-to-end fork-join pipeline: source image in, ordered OCR
// results out.
package orchestrate

import (
	"context"
	"fmt"
	"image"

	"github.com/relieftext/reliefocr/internal/dataflow"
	"github.com/relieftext/reliefocr/internal/detectorproc"
	"github.com/relieftext/reliefocr/internal/geometry"
	"github.com/relieftext/reliefocr/internal/inference"
	"github.com/relieftext/reliefocr/internal/ocrerr"
	"github.com/relieftext/reliefocr/internal/recognizerproc"
	"github.com/relieftext/reliefocr/internal/tensor"
)

// TextLine is one recognized line within an image's OCR result.
type TextLine struct {
	Rect       geometry.RotatedRectangle
	Text       string
	Confidence float64
}

// Result is the ordered OCR output for one image.
type Result struct {
	Lines []TextLine
}

// Config bundles the two model engines and the recognizer's dictionary, plus
// the geometry tuning applied to detector output.
type Config struct {
	DetectorEngine   *inference.Engine
	RecognizerEngine *inference.Engine
	Dictionary       *recognizerproc.Dictionary
	GeometryOptions  geometry.Options
}

// Pipeline runs one image end to end: detector preprocess, detector
// inference, geometry extraction, then a dataflow.Transform fork-join across
// the recognizer stage for every detected region, joined back into one
// ordered Result. It is built as a plain function (closing over cfg) so it
// can be used directly, wrapped by a multiplex.Multiplexer for
// request-serializing "serve" use, or driven through dataflow.Transform
// again at the image level for batch throughput (see RunBatch).
func Pipeline(cfg Config) func(ctx context.Context, img image.Image) (Result, error) {
	return func(ctx context.Context, img image.Image) (Result, error) {
		if img == nil {
			return Result{}, fmt.Errorf("orchestrate: nil image: %w", ocrerr.ErrInvalidInput)
		}

		detTensors, infos := detectorproc.Preprocess([]image.Image{img})
		probMap, err := cfg.DetectorEngine.Run(ctx, detTensors[0])
		if err != nil {
			return Result{}, fmt.Errorf("orchestrate: detector inference: %w", err)
		}
		boxesPerImage := detectorproc.Postprocess([]tensor.Tensor{probMap}, infos, cfg.GeometryOptions)
		boxes := boxesPerImage[0]
		if len(boxes) == 0 {
			return Result{}, nil
		}

		lines, err := recognizeRegions(ctx, cfg, img, boxes)
		if err != nil {
			return Result{}, err
		}
		return Result{Lines: lines}, nil
	}
}

// recognizeRegions forks the recognizer stage across every detected box
// concurrently, bounded by the recognizer engine's own concurrency limit,
// and joins the results back into boxes' original order. Each region still
// goes through the same Crop -> Batch -> Run -> Postprocess contract a
// single-region call would, batched as a single-element tensor per call so
// the engine's semaphore (not a hand-rolled goroutine pool) is what actually
// bounds the fan-out.
func recognizeRegions(ctx context.Context, cfg Config, img image.Image, boxes []geometry.TextBoundary) ([]TextLine, error) {
	in := make(chan geometry.TextBoundary, len(boxes))
	for _, b := range boxes {
		in <- b
	}
	close(in)

	parallelism := cfg.RecognizerEngine.Concurrency()
	if parallelism > len(boxes) {
		parallelism = len(boxes)
	}

	block, out := dataflow.NewTransform(ctx, in, parallelism, len(boxes), func(ctx context.Context, b geometry.TextBoundary) (TextLine, error) {
		region := recognizerproc.Crop(img, b)
		batch := recognizerproc.Batch([]image.Image{region})
		logits, err := cfg.RecognizerEngine.Run(ctx, batch)
		if err != nil {
			return TextLine{}, fmt.Errorf("orchestrate: recognizer inference: %w", err)
		}
		decoded := recognizerproc.Postprocess(logits, cfg.Dictionary)
		var d recognizerproc.Decoded
		if len(decoded) > 0 {
			d = decoded[0]
		}
		return TextLine{Rect: b.Rect, Text: d.Text, Confidence: d.Confidence}, nil
	})

	lines := make([]TextLine, 0, len(boxes))
	for l := range out {
		lines = append(lines, l)
	}
	select {
	case err := <-block.Fault():
		return nil, err
	default:
		return lines, nil
	}
}
