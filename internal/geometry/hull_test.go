package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvexHull_SquareWithInteriorPoint(t *testing.T) {
	pts := []Point{
		{0, 0}, {4, 0}, {4, 4}, {0, 4}, {2, 2},
	}
	hull := convexHull(pts)
	require.Len(t, hull.Points, 4)
	for _, p := range hull.Points {
		assert.NotEqual(t, Point{2, 2}, p, "interior point must not survive the hull")
	}
}

func TestConvexHull_Collinear(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0}, {2, 0}}
	hull := convexHull(pts)
	assert.LessOrEqual(t, len(hull.Points), 2)
}

func TestMinAreaRect_AxisAlignedSquare(t *testing.T) {
	hull := convexHull([]Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}})
	rect, ok := minAreaRect(hull)
	require.True(t, ok)
	assert.InDelta(t, 4.0, rect.Width(), 1e-6)
	assert.InDelta(t, 4.0, rect.Height(), 1e-6)
}

func TestMinAreaRect_DegenerateHullRejected(t *testing.T) {
	hull := ConvexHull{Points: []Point{{0, 0}, {1, 1}}}
	_, ok := minAreaRect(hull)
	assert.False(t, ok)
}

func TestCanonicalizeReadingOrder_TopLeftFirst(t *testing.T) {
	rect := RotatedRectangle{Corners: [4]Point{
		{10, 10}, {0, 10}, {0, 0}, {10, 0},
	}}
	out := canonicalizeReadingOrder(rect)
	assert.Equal(t, Point{0, 0}, out.Corners[0])
}
