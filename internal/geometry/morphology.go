package geometry

// mask is a dense W*H boolean bitmap produced by thresholding a ReliefMap.
type mask struct {
	W, H int
	Bits []bool
}

func newMask(w, h int) *mask {
	return &mask{W: w, H: h, Bits: make([]bool, w*h)}
}

func (m *mask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Bits[y*m.W+x]
}

func (m *mask) set(x, y int, v bool) {
	m.Bits[y*m.W+x] = v
}

// binarize thresholds a relief map into a boolean mask: values strictly
// above threshold become foreground. A threshold of 0.2 is the detector's
// authoritative decision boundary; higher thresholds (e.g. 0.5) trade recall
// for a cleaner mask. The morphological open step below works on the
// resulting boolean mask and applies no threshold of its own.
func binarize(m *ReliefMap, threshold float64) *mask {
	out := newMask(m.W, m.H)
	t := float32(threshold)
	for i, v := range m.Values {
		out.Bits[i] = v > t
	}
	return out
}

// erode3x3 performs binary erosion with a 3x3 full (8-connected) structuring
// element: a pixel survives only if all 8 neighbors (and itself) are set.
func erode3x3(in *mask) *mask {
	out := newMask(in.W, in.H)
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			if !in.at(x, y) {
				continue
			}
			keep := true
			for dy := -1; dy <= 1 && keep; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if !in.at(x+dx, y+dy) {
						keep = false
						break
					}
				}
			}
			out.set(x, y, keep)
		}
	}
	return out
}

// dilate3x3 performs binary dilation with a 3x3 full structuring element: a
// pixel is set if any of its 8 neighbors (or itself) is set in the input.
func dilate3x3(in *mask) *mask {
	out := newMask(in.W, in.H)
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			set := false
			for dy := -1; dy <= 1 && !set; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if in.at(x+dx, y+dy) {
						set = true
						break
					}
				}
			}
			out.set(x, y, set)
		}
	}
	return out
}

// morphOpen removes isolated single-pixel and hairline noise from a mask by
// eroding then dilating, the standard "opening" operator. Detector output is
// noisy enough along probability-map edges that skipping this step produces
// a significant number of spurious one- or two-pixel contours.
func morphOpen(in *mask) *mask {
	return dilate3x3(erode3x3(in))
}
