package orchestrate

import (
	"context"
	"image"

	"github.com/relieftext/reliefocr/internal/dataflow"
)

// RunBatch fans a slice of images through Pipeline with the given
// parallelism, preserving the caller's image order in the returned slice.
// It is the dataflow.Transform-based counterpart to Pipeline, for workloads
// where throughput across many images matters more than the single-image
// latency Pipeline alone reports.
func RunBatch(ctx context.Context, cfg Config, images []image.Image, parallelism int) ([]Result, error) {
	in := make(chan image.Image, len(images))
	for _, img := range images {
		in <- img
	}
	close(in)

	step := Pipeline(cfg)
	_, out := dataflow.NewTransform(ctx, in, parallelism, len(images), func(ctx context.Context, img image.Image) (Result, error) {
		return step(ctx, img)
	})

	results := make([]Result, 0, len(images))
	for r := range out {
		results = append(results, r)
	}
	return results, nil
}
