package tensor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageNHWC_Shape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	tn := FromImageNHWC(img)
	assert.Equal(t, []int64{1, 2, 3, 3}, tn.Shape)
	assert.Equal(t, 18, tn.Len())
}

func TestToNCHW_RoundTripsElementCount(t *testing.T) {
	nhwc := New(1, 2, 3, 3)
	for i := range nhwc.Data {
		nhwc.Data[i] = float32(i)
	}
	nchw, err := ToNCHW(nhwc)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 2, 3}, nchw.Shape)
	assert.Equal(t, len(nhwc.Data), len(nchw.Data))
}

func TestToNCHW_RejectsNonRank4(t *testing.T) {
	_, err := ToNCHW(New(2, 2))
	assert.Error(t, err)
}
