// Package detectorproc implements the detector model's pre/post-processing
// contract: resizing images onto the model's expected tensor layout and
// turning its output relief map into oriented text boundaries.
package detectorproc

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/relieftext/reliefocr/internal/geometry"
	"github.com/relieftext/reliefocr/internal/tensor"
)

// TargetSize is the detector's fixed square input side. Each image is
// resized (preserving aspect ratio, long side to TargetSize) and placed at
// the canvas's top-left corner; the remainder is filled black.
const TargetSize = 640

// ResizeInfo records how an image was placed onto the detector canvas so
// postprocessing can map detector-space coordinates back to the original
// image.
type ResizeInfo struct {
	OriginalSize geometry.Size
	// ScaledSize is the aspect-ratio-preserving resize of OriginalSize that
	// fits within the TargetSize x TargetSize canvas, before padding.
	ScaledSize geometry.Size
}

// Preprocess resizes each image to fit within a TargetSize x TargetSize
// canvas, pastes it at the top-left corner with the remainder filled black,
// and returns the resulting [1,3,TargetSize,TargetSize] NCHW tensors
// alongside the resize bookkeeping Postprocess needs.
func Preprocess(images []image.Image) ([]tensor.Tensor, []ResizeInfo) {
	tensors := make([]tensor.Tensor, len(images))
	infos := make([]ResizeInfo, len(images))
	for i, img := range images {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		sw, sh := scaledDims(w, h)
		resized := imaging.Resize(img, sw, sh, imaging.CatmullRom)

		canvas := imaging.New(TargetSize, TargetSize, color.Black)
		canvas = imaging.Paste(canvas, resized, image.Pt(0, 0))

		nhwc := tensor.FromImageNHWC(canvas)
		nchw, err := tensor.ToNCHW(nhwc)
		if err != nil {
			nchw = nhwc
		}
		tensors[i] = nchw
		infos[i] = ResizeInfo{
			OriginalSize: geometry.Size{W: w, H: h},
			ScaledSize:   geometry.Size{W: sw, H: sh},
		}
	}
	return tensors, infos
}

// scaledDims computes the aspect-ratio-preserving dimensions of a w*h image
// resized so its long side equals TargetSize.
func scaledDims(w, h int) (int, int) {
	longSide := w
	if h > longSide {
		longSide = h
	}
	if longSide == 0 {
		return 1, 1
	}
	scale := float64(TargetSize) / float64(longSide)
	sw := clamp(int(float64(w)*scale+0.5), 1, TargetSize)
	sh := clamp(int(float64(h)*scale+0.5), 1, TargetSize)
	return sw, sh
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Postprocess converts each detector output relief map into oriented text
// boundaries, scaled back into the corresponding original image's
// coordinates. Only the top-left ScaledSize region of each map corresponds
// to real image content; the rest reflects the canvas's black padding and is
// discarded before box extraction.
func Postprocess(probMaps []tensor.Tensor, infos []ResizeInfo, opts geometry.Options) [][]geometry.TextBoundary {
	out := make([][]geometry.TextBoundary, len(probMaps))
	for i, t := range probMaps {
		full := tensorToReliefMap(t)
		m := full.SubTopLeft(infos[i].ScaledSize.W, infos[i].ScaledSize.H)
		out[i] = geometry.ExtractBoxes(m, infos[i].OriginalSize, opts)
	}
	return out
}

// tensorToReliefMap reinterprets a [1, 1, H, W] (or [H, W]) detector output
// tensor as a ReliefMap; the tensor's own H/W dimensions define the map's
// resolution. A rank-4 shape is always read as NCHW, and any other rank is
// treated as TargetSize x TargetSize.
func tensorToReliefMap(t tensor.Tensor) *geometry.ReliefMap {
	var h, w int64
	switch len(t.Shape) {
	case 4:
		h, w = t.Shape[2], t.Shape[3]
	case 2:
		h, w = t.Shape[0], t.Shape[1]
	default:
		h, w = TargetSize, TargetSize
	}
	m := geometry.NewReliefMap(int(w), int(h))
	copy(m.Values, t.Data)
	return m
}
