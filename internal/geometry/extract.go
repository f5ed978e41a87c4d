package geometry

import "math"

// Options configures ExtractBoxes. Zero-value Options fall back to the
// detector's defaults.
type Options struct {
	// BinarizeThreshold is the foreground cutoff applied to the relief map
	// before morphological opening and contour tracing. 0.2 is the
	// authoritative detection threshold; callers tuning precision/recall
	// should prefer adjusting MinScore over this value.
	BinarizeThreshold float64
	// MinScore discards a candidate boundary whose mean relief-map score
	// under its contour falls below this value.
	MinScore float64
	// SimplifyEpsilon is the Douglas-Peucker tolerance, in source-map
	// pixels, applied before offsetting.
	SimplifyEpsilon float64
	// MinArea discards contours (pre-dilation) below this pixel area.
	MinArea float64
}

// DefaultOptions returns the detector's standard tuning.
func DefaultOptions() Options {
	return Options{
		BinarizeThreshold: 0.2,
		MinScore:          0.6,
		SimplifyEpsilon:   1.0,
		MinArea:           9,
	}
}

// ExtractBoxes converts a relief map into oriented text boundaries, scaled
// into the coordinates of sourceSize (the original image, before whatever
// resize produced the map). Regions that fail a geometric precondition
// (degenerate hull, zero-area rectangle) are silently dropped; ExtractBoxes
// itself never returns an error.
func ExtractBoxes(m *ReliefMap, sourceSize Size, opts Options) []TextBoundary {
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	bm := binarize(m, opts.BinarizeThreshold)
	opened := morphOpen(bm)
	contours := traceBoundaries(opened)

	scaleX := float64(sourceSize.W) / float64(m.W)
	scaleY := float64(sourceSize.H) / float64(m.H)

	var out []TextBoundary
	for _, contour := range contours {
		if math.Abs(contour.Area()) < opts.MinArea {
			continue // DegenerateGeometry: absorbed, never surfaced.
		}
		score := meanScore(m, contour)
		if score < opts.MinScore {
			continue
		}
		simplified := simplify(contour, opts.SimplifyEpsilon)
		if len(simplified.Points) < 3 {
			continue
		}
		d := offsetDistance(simplified)
		dilated := dilate(simplified, d)

		hull := convexHull(dilated.Points)
		if len(hull.Points) < 3 {
			continue
		}
		rect, ok := minAreaRect(hull)
		if !ok || rect.Width() <= 0 || rect.Height() <= 0 {
			continue
		}
		rect = canonicalizeReadingOrder(rect)

		scaled := scaleBoundary(TextBoundary{
			Contour:    contour,
			Dilated:    dilated,
			Rect:       rect,
			BBox:       dilated.BoundingBox(),
			Confidence: score,
		}, scaleX, scaleY)
		out = append(out, scaled)
	}
	return out
}

func meanScore(m *ReliefMap, p Polygon) float64 {
	bb := p.BoundingBox()
	minX, minY := int(math.Floor(bb.MinX)), int(math.Floor(bb.MinY))
	maxX, maxY := int(math.Ceil(bb.MaxX)), int(math.Ceil(bb.MaxY))
	var sum float64
	var n int
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !pointInPolygon(Point{X: float64(x), Y: float64(y)}, p) {
				continue
			}
			sum += float64(m.At(x, y))
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func pointInPolygon(pt Point, p Polygon) bool {
	n := len(p.Points)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Points[i], p.Points[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xint := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < xint {
				inside = !inside
			}
		}
	}
	return inside
}

func scaleBoundary(tb TextBoundary, sx, sy float64) TextBoundary {
	tb.Contour = scalePoly(tb.Contour, sx, sy)
	tb.Dilated = scalePoly(tb.Dilated, sx, sy)
	for i, c := range tb.Rect.Corners {
		tb.Rect.Corners[i] = Point{X: c.X * sx, Y: c.Y * sy}
	}
	tb.BBox = Box{MinX: tb.BBox.MinX * sx, MinY: tb.BBox.MinY * sy, MaxX: tb.BBox.MaxX * sx, MaxY: tb.BBox.MaxY * sy}
	return tb
}

func scalePoly(p Polygon, sx, sy float64) Polygon {
	out := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = Point{X: pt.X * sx, Y: pt.Y * sy}
	}
	return Polygon{Points: out}
}
