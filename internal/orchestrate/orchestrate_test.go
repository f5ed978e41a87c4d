package orchestrate

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieftext/reliefocr/internal/inference"
	"github.com/relieftext/reliefocr/internal/ocrerr"
	"github.com/relieftext/reliefocr/internal/recognizerproc"
	"github.com/relieftext/reliefocr/internal/tensor"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	detSession := &inference.MockSession{RunFunc: func(in tensor.Tensor) (tensor.Tensor, error) {
		// Mimic a [1, 1, H, W] detector output with one strong blob.
		h, w := in.Shape[2], in.Shape[3]
		out := tensor.New(1, 1, h, w)
		for y := int64(2); y < h/2; y++ {
			for x := int64(2); x < w-2; x++ {
				out.Data[y*w+x] = 0.9
			}
		}
		return out, nil
	}}
	recSession := &inference.MockSession{RunFunc: func(in tensor.Tensor) (tensor.Tensor, error) {
		n := in.Shape[0]
		// Emit the argmax path [1,1,0,1,2,2] (classes: blank,'o','k') padded
		// per batch element to keep decode deterministic.
		c := int64(3)
		tsteps := int64(6)
		out := tensor.New(n, tsteps, c)
		path := []int64{1, 1, 0, 1, 2, 2}
		for bi := int64(0); bi < n; bi++ {
			for ti, class := range path {
				out.Data[(bi*tsteps+int64(ti))*c+class] = 1.0
			}
		}
		return out, nil
	}}

	dict, err := recognizerproc.NewDictionary(strings.NewReader("o\nk"))
	require.NoError(t, err)

	return Config{
		DetectorEngine:   inference.New(detSession, inference.Config{Name: "detector"}),
		RecognizerEngine: inference.New(recSession, inference.Config{Name: "recognizer"}),
		Dictionary:       dict,
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))

	result, err := Pipeline(cfg)(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "ok", result.Lines[0].Text)
}

func TestPipeline_RejectsNilImage(t *testing.T) {
	cfg := testConfig(t)
	_, err := Pipeline(cfg)(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ocrerr.ErrInvalidInput)
}

func TestRunBatch_ReturnsOneResultPerImage(t *testing.T) {
	cfg := testConfig(t)
	images := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 200, 100)),
		image.NewRGBA(image.Rect(0, 0, 200, 100)),
		image.NewRGBA(image.Rect(0, 0, 200, 100)),
	}
	results, err := RunBatch(context.Background(), cfg, images, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.Len(t, r.Lines, 1)
		assert.Equal(t, "ok", r.Lines[0].Text)
	}
}
