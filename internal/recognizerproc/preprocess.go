package recognizerproc

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/relieftext/reliefocr/internal/geometry"
	"github.com/relieftext/reliefocr/internal/tensor"
)

const (
	// TargetHeight is the recognizer's fixed input height; width varies per
	// region and is clamped to [MinWidth, MaxWidth].
	TargetHeight = 48
	MinWidth     = 12
	MaxWidth     = 320
)

// Crop perspective-corrects and resizes one text region for the recognizer:
// geometry.Crop extracts the (possibly rotated) region, then the result is
// scaled to TargetHeight while preserving aspect ratio, clamped to
// [MinWidth, MaxWidth].
func Crop(img image.Image, boundary geometry.TextBoundary) image.Image {
	region := geometry.Crop(img, boundary.Rect)
	b := region.Bounds()
	w, h := b.Dx(), b.Dy()
	if h == 0 {
		return region
	}
	targetW := int(float64(w) * float64(TargetHeight) / float64(h))
	if targetW < MinWidth {
		targetW = MinWidth
	}
	if targetW > MaxWidth {
		targetW = MaxWidth
	}
	return imaging.Resize(region, targetW, TargetHeight, imaging.Lanczos)
}

// Batch right-pads a set of per-region images to a common width (the widest
// region in the batch) and stacks them into a single NCHW tensor, the layout
// the recognizer model expects. Each region is left-aligned within its row;
// the padding remainder is left zeroed.
func Batch(regions []image.Image) tensor.Tensor {
	maxW := MinWidth
	for _, r := range regions {
		if w := r.Bounds().Dx(); w > maxW {
			maxW = w
		}
	}
	n := int64(len(regions))
	t := tensor.New(n, 3, int64(TargetHeight), int64(maxW))
	for i, r := range regions {
		w := r.Bounds().Dx()
		nhwc := tensor.FromImageNHWC(r)
		nchw, err := tensor.ToNCHW(nhwc)
		if err != nil {
			continue
		}
		for c := 0; c < 3; c++ {
			for y := 0; y < TargetHeight; y++ {
				srcBase := (int64(c)*TargetHeight+int64(y))*int64(w)
				dstBase := ((int64(i)*3+int64(c))*TargetHeight + int64(y)) * int64(maxW)
				copy(t.Data[dstBase:dstBase+int64(w)], nchw.Data[srcBase:srcBase+int64(w)])
			}
		}
	}
	return t
}
