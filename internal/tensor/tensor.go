// Package tensor implements the rank-N float32 buffer shared by the detector
// and recognizer model adapters, and the NHWC/NCHW and ImageNet-normalization
// transforms used to feed images into either model.
package tensor

import (
	"fmt"
	"image"
)

// Tensor is a dense row-major float32 buffer tagged with its shape.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// New allocates a zeroed tensor of the given shape.
func New(shape ...int64) Tensor {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return Tensor{Shape: append([]int64{}, shape...), Data: make([]float32, n)}
}

// Len returns the total element count implied by Shape.
func (t Tensor) Len() int { return len(t.Data) }

// ImageNet normalization constants, the same values the teacher's DBNet and
// SVTR-family models were trained against.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// FromImageNHWC converts an RGB image into a [1, H, W, 3] tensor, normalized
// with ImageNet mean/std per channel.
func FromImageNHWC(img image.Image) Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	t := New(1, int64(h), int64(w), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			t.Data[i+0] = (float32(r)/65535 - imagenetMean[0]) / imagenetStd[0]
			t.Data[i+1] = (float32(g)/65535 - imagenetMean[1]) / imagenetStd[1]
			t.Data[i+2] = (float32(bl)/65535 - imagenetMean[2]) / imagenetStd[2]
			i += 3
		}
	}
	return t
}

// ToNCHW transposes a [N, H, W, C] tensor into [N, C, H, W] layout, the
// layout most ONNX vision models expect as graph input.
func ToNCHW(t Tensor) (Tensor, error) {
	if len(t.Shape) != 4 {
		return Tensor{}, fmt.Errorf("tensor: ToNCHW requires rank 4, got %d", len(t.Shape))
	}
	n, h, w, c := t.Shape[0], t.Shape[1], t.Shape[2], t.Shape[3]
	out := New(n, c, h, w)
	for ni := int64(0); ni < n; ni++ {
		for yi := int64(0); yi < h; yi++ {
			for xi := int64(0); xi < w; xi++ {
				for ci := int64(0); ci < c; ci++ {
					src := ((ni*h+yi)*w+xi)*c + ci
					dst := ((ni*c+ci)*h+yi)*w + xi
					out.Data[dst] = t.Data[src]
				}
			}
		}
	}
	return out, nil
}
