package geometry

import "sort"

// convexHull computes the convex hull of a point set using Andrew's
// monotone-chain construction (a non-recursive variant of the Graham scan):
// sort by (x, y), then build the lower and upper chains independently,
// discarding any point that would make the chain turn clockwise.
func convexHull(points []Point) ConvexHull {
	pts := append([]Point{}, points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedupe(pts)
	if len(pts) < 3 {
		return ConvexHull{Points: pts}
	}

	lower := buildChain(pts)
	upperInput := make([]Point, len(pts))
	for i, p := range pts {
		upperInput[len(pts)-1-i] = p
	}
	upper := buildChain(upperInput)

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return ConvexHull{Points: startAtLowest(hull)}
}

func buildChain(pts []Point) []Point {
	var chain []Point
	for _, p := range pts {
		for len(chain) >= 2 && cross(chain[len(chain)-2], chain[len(chain)-1], p) <= 0 {
			chain = chain[:len(chain)-1]
		}
		chain = append(chain, p)
	}
	return chain
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func dedupe(pts []Point) []Point {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func startAtLowest(pts []Point) []Point {
	if len(pts) == 0 {
		return pts
	}
	best := 0
	for i, p := range pts {
		if p.Y < pts[best].Y || (p.Y == pts[best].Y && p.X < pts[best].X) {
			best = i
		}
	}
	return append(pts[best:], pts[:best]...)
}
