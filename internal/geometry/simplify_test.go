package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplify_RemovesNearlyCollinearVertices(t *testing.T) {
	p := Polygon{Points: []Point{
		{0, 0}, {5, 0.01}, {10, 0}, {10, 10}, {0, 10},
	}}
	out := simplify(p, 1.0)
	assert.Less(t, len(out.Points), len(p.Points))
}

func TestSimplify_PreservesSmallPolygon(t *testing.T) {
	p := Polygon{Points: []Point{{0, 0}, {1, 0}}}
	out := simplify(p, 1.0)
	assert.Equal(t, p, out)
}

func TestOffsetDistance_ZeroForDegenerate(t *testing.T) {
	p := Polygon{Points: []Point{{0, 0}, {1, 0}}}
	assert.Equal(t, 0.0, offsetDistance(p))
}

func TestDilate_ExpandsSquareOutward(t *testing.T) {
	square := Polygon{Points: []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}}
	d := offsetDistance(square)
	out := dilate(square, d)
	assert.Greater(t, out.BoundingBox().Width(), square.BoundingBox().Width())
	assert.Greater(t, out.BoundingBox().Height(), square.BoundingBox().Height())
}
