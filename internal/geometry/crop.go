package geometry

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Crop extracts the region described by rect from img, correcting for its
// rotation via an affine bilinear resample: for axis-aligned rectangles
// (Angle within a small epsilon of zero) it falls back to a direct crop,
// matching the teacher's fast path for the common un-rotated case. Rotated
// rectangles are sampled with golang.org/x/image/draw's bilinear kernel,
// so that destination pixel (i, j) samples the source at
// TL + i*(TR-TL)/w + j*(BL-TL)/h.
func Crop(img image.Image, rect RotatedRectangle) image.Image {
	w := int(math.Round(rect.Width()))
	h := int(math.Round(rect.Height()))
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	if math.Abs(rect.Angle) < 1e-6 {
		bb := Polygon{Points: rect.Corners[:]}.BoundingBox()
		r := image.Rect(int(math.Round(bb.MinX)), int(math.Round(bb.MinY)), int(math.Round(bb.MaxX)), int(math.Round(bb.MaxY)))
		return imaging.Crop(img, r)
	}

	tl, tr, _, bl := rect.Corners[0], rect.Corners[1], rect.Corners[2], rect.Corners[3]
	// Source-space basis vectors for one destination pixel step along the
	// rectangle's width and height.
	ux, uy := (tr.X-tl.X)/float64(w), (tr.Y-tl.Y)/float64(w)
	vx, vy := (bl.X-tl.X)/float64(h), (bl.Y-tl.Y)/float64(h)

	// draw.Transform takes the source-to-destination matrix, so invert the
	// destination-to-source mapping src = tl + i*u + j*v.
	det := ux*vy - vx*uy
	ia, ib := vy/det, -vx/det
	ic, id := -uy/det, ux/det
	s2d := f64.Aff3{
		ia, ib, -(ia*tl.X + ib*tl.Y),
		ic, id, -(ic*tl.X + id*tl.Y),
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Transform(dst, s2d, img, img.Bounds(), draw.Src, nil)
	return dst
}
