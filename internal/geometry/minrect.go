package geometry

import "math"

// minAreaRect fits the smallest-area rectangle enclosing a convex hull using
// the rotating calipers technique: the optimal rectangle always has one side
// flush with a hull edge, so it suffices to test one orientation per edge.
func minAreaRect(hull ConvexHull) (RotatedRectangle, bool) {
	pts := hull.Points
	n := len(pts)
	if n < 3 {
		return RotatedRectangle{}, false
	}

	bestArea := math.Inf(1)
	var best RotatedRectangle

	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		edgeAngle := math.Atan2(b.Y-a.Y, b.X-a.X)
		cosT, sinT := math.Cos(-edgeAngle), math.Sin(-edgeAngle)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range pts {
			rx := p.X*cosT - p.Y*sinT
			ry := p.X*sinT + p.Y*cosT
			minX, maxX = math.Min(minX, rx), math.Max(maxX, rx)
			minY, maxY = math.Min(minY, ry), math.Max(maxY, ry)
		}

		area := (maxX - minX) * (maxY - minY)
		if area < bestArea {
			bestArea = area
			best = rectFromRotatedExtent(minX, minY, maxX, maxY, edgeAngle)
		}
	}
	if math.IsInf(bestArea, 1) {
		return RotatedRectangle{}, false
	}
	return best, true
}

func rectFromRotatedExtent(minX, minY, maxX, maxY, angle float64) RotatedRectangle {
	cosT, sinT := math.Cos(angle), math.Sin(angle)
	rotate := func(x, y float64) Point {
		return Point{X: x*cosT - y*sinT, Y: x*sinT + y*cosT}
	}
	corners := [4]Point{
		rotate(minX, minY),
		rotate(maxX, minY),
		rotate(maxX, maxY),
		rotate(minX, maxY),
	}
	norm := normalizeAngle(angle)
	return RotatedRectangle{Corners: corners, Angle: norm}
}

// normalizeAngle folds an angle into (-pi/4, pi/4], the convention that
// picks the "more horizontal" of a rectangle's two perpendicular edges as
// its reference angle.
func normalizeAngle(a float64) float64 {
	for a > math.Pi/4 {
		a -= math.Pi / 2
	}
	for a <= -math.Pi/4 {
		a += math.Pi / 2
	}
	return a
}

// canonicalizeReadingOrder reorders a rectangle's corners so Corners[0] is
// the top-left in reading order (smallest Y, then smallest X among ties),
// proceeding clockwise: top-left, top-right, bottom-right, bottom-left.
func canonicalizeReadingOrder(r RotatedRectangle) RotatedRectangle {
	idx := 0
	for i, c := range r.Corners {
		if c.Y < r.Corners[idx].Y || (c.Y == r.Corners[idx].Y && c.X < r.Corners[idx].X) {
			idx = i
		}
	}
	var rotated [4]Point
	for i := 0; i < 4; i++ {
		rotated[i] = r.Corners[(idx+i)%4]
	}
	// Ensure clockwise order in image coordinates (Y grows downward): if
	// the second point is below the first rather than beside it, the walk
	// is counter-clockwise and must be reversed.
	if cross(rotated[0], rotated[1], rotated[2]) < 0 {
		rotated = [4]Point{rotated[0], rotated[3], rotated[2], rotated[1]}
	}
	r.Corners = rotated
	return r
}
