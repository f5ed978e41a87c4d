package geometry

// mooreNeighbors lists the 8-connected neighborhood offsets in clockwise
// order starting from the west direction, the conventional Moore tracing
// order.
var mooreNeighbors = [8][2]int{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// traceBoundaries finds every connected foreground component in the mask via
// a 4-connected flood fill and traces its outer boundary with Moore-neighbor
// tracing. The walk ends the first time it returns to the start pixel; the
// entry direction is not compared (Jacob's criterion is not applied), so a
// start pixel that the boundary passes through twice ends the trace early.
func traceBoundaries(m *mask) []Polygon {
	visited := make([]bool, m.W*m.H)
	var polys []Polygon

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			idx := y*m.W + x
			if visited[idx] || !m.at(x, y) {
				continue
			}
			comp := floodFill(m, visited, x, y)
			if len(comp) == 0 {
				continue
			}
			start := leftmostTopmost(comp)
			poly := traceMoore(m, start)
			if len(poly.Points) >= 3 {
				polys = append(polys, poly)
			}
		}
	}
	return polys
}

type pt struct{ x, y int }

func floodFill(m *mask, visited []bool, sx, sy int) []pt {
	stack := []pt{{sx, sy}}
	visited[sy*m.W+sx] = true
	var comp []pt
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comp = append(comp, p)
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p.x+d[0], p.y+d[1]
			if nx < 0 || ny < 0 || nx >= m.W || ny >= m.H {
				continue
			}
			nidx := ny*m.W + nx
			if visited[nidx] || !m.at(nx, ny) {
				continue
			}
			visited[nidx] = true
			stack = append(stack, pt{nx, ny})
		}
	}
	return comp
}

func leftmostTopmost(comp []pt) pt {
	best := comp[0]
	for _, p := range comp[1:] {
		if p.y < best.y || (p.y == best.y && p.x < best.x) {
			best = p
		}
	}
	return best
}

// traceMoore walks the outer boundary of the component containing start,
// which must be its topmost-then-leftmost pixel (so the initial search
// direction "came from the west" is always safe outside the mask).
func traceMoore(m *mask, start pt) Polygon {
	boundary := []Point{{X: float64(start.x), Y: float64(start.y)}}

	// Degenerate single-pixel component: no neighbor is found and the loop
	// ends at once.
	cur := start
	backtrack := 0 // index into mooreNeighbors of the direction we arrived from
	first := true

	for {
		found := false
		for i := 0; i < 8; i++ {
			dir := (backtrack + 1 + i) % 8
			nx := cur.x + mooreNeighbors[dir][0]
			ny := cur.y + mooreNeighbors[dir][1]
			if m.at(nx, ny) {
				cur = pt{nx, ny}
				backtrack = (dir + 4) % 8 // look back the way we came
				found = true
				break
			}
		}
		if !found {
			// Isolated pixel: no foreground neighbor at all.
			break
		}
		if cur == start {
			break
		}
		boundary = append(boundary, Point{X: float64(cur.x), Y: float64(cur.y)})
		if len(boundary) > m.W*m.H*8 {
			// Safety valve: tracing must terminate within the mask's
			// total boundary-pixel budget.
			break
		}
		if first {
			first = false
		}
	}
	return Polygon{Points: boundary}
}
