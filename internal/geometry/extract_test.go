package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBoxes_FindsSingleRectangularBlob(t *testing.T) {
	m := NewReliefMap(40, 20)
	for y := 5; y < 15; y++ {
		for x := 5; x < 35; x++ {
			m.Values[y*m.W+x] = 0.9
		}
	}

	boxes := ExtractBoxes(m, Size{W: 40, H: 20}, DefaultOptions())
	require.Len(t, boxes, 1)
	assert.Greater(t, boxes[0].Rect.Width(), boxes[0].Rect.Height())
	assert.Greater(t, boxes[0].Confidence, 0.5)
}

func TestExtractBoxes_EmptyMapYieldsNoBoxes(t *testing.T) {
	m := NewReliefMap(10, 10)
	boxes := ExtractBoxes(m, Size{W: 10, H: 10}, DefaultOptions())
	assert.Empty(t, boxes)
}

func TestExtractBoxes_RescalesToSourceSize(t *testing.T) {
	m := NewReliefMap(20, 10)
	for y := 2; y < 8; y++ {
		for x := 2; x < 18; x++ {
			m.Values[y*m.W+x] = 0.9
		}
	}
	boxes := ExtractBoxes(m, Size{W: 40, H: 20}, DefaultOptions())
	require.Len(t, boxes, 1)
	// Source is 2x the map's resolution in both axes.
	assert.Greater(t, boxes[0].Rect.Width(), 20.0)
}
