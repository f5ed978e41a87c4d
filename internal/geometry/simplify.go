package geometry

import "math"

// simplify reduces a traced contour to its salient vertices via the
// Douglas-Peucker algorithm at the given perpendicular-distance tolerance
// epsilon. The input is treated as a closed polygon: the two farthest-apart
// points seed the recursive split instead of the path's literal endpoints.
func simplify(p Polygon, epsilon float64) Polygon {
	pts := p.Points
	if len(pts) < 3 {
		return p
	}
	a, b := farthestPair(pts)
	// Split the closed loop into two open chains between a and b, simplify
	// each independently, then stitch them back into one closed ring.
	chain1 := rotateSlice(pts, a, b)
	chain2 := rotateSlice(pts, b, a)
	s1 := dpSimplify(chain1, epsilon)
	s2 := dpSimplify(chain2, epsilon)
	out := append([]Point{}, s1...)
	out = append(out, s2[1:len(s2)-1]...)
	if len(out) < 3 {
		return p
	}
	return Polygon{Points: out}
}

func farthestPair(pts []Point) (int, int) {
	best, bi, bj := -1.0, 0, 1
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			d := dist(pts[i], pts[j])
			if d > best {
				best, bi, bj = d, i, j
			}
		}
	}
	return bi, bj
}

// rotateSlice returns the points walking forward from index i to index j
// inclusive, wrapping around the ring if necessary.
func rotateSlice(pts []Point, i, j int) []Point {
	n := len(pts)
	var out []Point
	for k := i; ; k = (k + 1) % n {
		out = append(out, pts[k])
		if k == j {
			break
		}
	}
	return out
}

func dpSimplify(pts []Point, epsilon float64) []Point {
	if len(pts) < 3 {
		return pts
	}
	maxDist, idx := -1.0, 0
	first, last := pts[0], pts[len(pts)-1]
	for i := 1; i < len(pts)-1; i++ {
		d := perpendicularDistance(pts[i], first, last)
		if d > maxDist {
			maxDist, idx = d, i
		}
	}
	if maxDist <= epsilon {
		return []Point{first, last}
	}
	left := dpSimplify(pts[:idx+1], epsilon)
	right := dpSimplify(pts[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

func perpendicularDistance(p, a, b Point) float64 {
	if a == b {
		return dist(p, a)
	}
	num := math.Abs((b.Y-a.Y)*p.X - (b.X-a.X)*p.Y + b.X*a.Y - b.Y*a.X)
	den := dist(a, b)
	return num / den
}
