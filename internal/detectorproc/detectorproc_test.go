package detectorproc

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieftext/reliefocr/internal/geometry"
	"github.com/relieftext/reliefocr/internal/tensor"
)

func TestPreprocess_PlacesImageOnFixedBlackCanvas(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	tensors, infos := Preprocess([]image.Image{img})
	require.Len(t, tensors, 1)
	require.Len(t, infos, 1)

	assert.Equal(t, []int64{1, 3, TargetSize, TargetSize}, tensors[0].Shape)
	assert.Equal(t, geometry.Size{W: 100, H: 50}, infos[0].OriginalSize)
	// Long side (width) scales to TargetSize; aspect ratio is preserved.
	assert.Equal(t, TargetSize, infos[0].ScaledSize.W)
	assert.Equal(t, TargetSize/2, infos[0].ScaledSize.H)
}

func TestPostprocess_ProducesBoundariesScaledToOriginal(t *testing.T) {
	probMap := tensor.New(1, 1, 20, 40)
	for y := 5; y < 15; y++ {
		for x := 5; x < 35; x++ {
			probMap.Data[y*40+x] = 0.9
		}
	}
	infos := []ResizeInfo{{OriginalSize: geometry.Size{W: 80, H: 40}, ScaledSize: geometry.Size{W: 40, H: 20}}}

	out := Postprocess([]tensor.Tensor{probMap}, infos, geometry.DefaultOptions())
	require.Len(t, out, 1)
	require.Len(t, out[0], 1)
	assert.Greater(t, out[0][0].Rect.Width(), 40.0) // 2x the relief map's resolution
}
