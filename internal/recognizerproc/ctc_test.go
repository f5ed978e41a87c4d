package recognizerproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relieftext/reliefocr/internal/tensor"
)

func mustDict(t *testing.T, lines ...string) *Dictionary {
	t.Helper()
	d, err := NewDictionary(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return d
}

func TestPostprocess_CollapsesBlankSeparatedRepeats(t *testing.T) {
	// 6-class dictionary: blank, a, b, c, d, e (indices 0..5).
	dict := mustDict(t, "a", "b", "c", "d", "e")
	require.Equal(t, 6, dict.Len())

	// Argmax path per timestep: [3, 3, 0, 3, 5, 5].
	path := []int{3, 3, 0, 3, 5, 5}
	logits := oneHotLogits(path, dict.Len())

	out := Postprocess(logits, dict)
	require.Len(t, out, 1)
	assert.Equal(t, "ce", out[0].Text)
	assert.Greater(t, out[0].Confidence, 0.0)
}

func TestPostprocess_EmptyWhenAllBlank(t *testing.T) {
	dict := mustDict(t, "a", "b")
	logits := oneHotLogits([]int{0, 0, 0}, dict.Len())
	out := Postprocess(logits, dict)
	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].Text)
	assert.Equal(t, 0.0, out[0].Confidence)
}

func TestPostprocess_ConfidenceIsGeometricMeanOfRunMaxima(t *testing.T) {
	dict := mustDict(t, "a")
	// The blank at t=2 is dropped before collapsing, so the three label-1
	// steps form a single emitted run; confidence must be the geometric mean
	// of the run maxima (here the one run's max, 0.9), not a flat average
	// over every timestep.
	c := dict.Len()
	logits := tensor.New(1, 4, int64(c))
	set := func(ti, class int, val float32) {
		logits.Data[ti*c+class] = val
	}
	set(0, 1, 0.6)
	set(1, 1, 0.9) // run max = 0.9
	set(2, 0, 0.99)
	set(3, 1, 0.5)

	out := Postprocess(logits, dict)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Text)
	expected := float64(float32(0.9))
	assert.InDelta(t, expected, out[0].Confidence, 1e-9)
}

// oneHotLogits builds a [1, T, C] tensor where each timestep's argmax is
// exactly the corresponding entry of path, with probability 1.0 there and 0
// elsewhere.
func oneHotLogits(path []int, classes int) tensor.Tensor {
	t := tensor.New(1, int64(len(path)), int64(classes))
	for ti, class := range path {
		t.Data[ti*classes+class] = 1.0
	}
	return t
}
