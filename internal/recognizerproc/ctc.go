package recognizerproc

import (
	"math"

	"github.com/relieftext/reliefocr/internal/tensor"
)

// Decoded is one recognizer result: the transcribed text and its confidence.
type Decoded struct {
	Text       string
	Confidence float64
}

// Postprocess greedily decodes a [N, T, C] logits tensor (batch, timestep,
// class) into text per batch element.
//
// Decode algorithm, in this exact order:
//  1. Take the argmax class and its probability at every timestep.
//  2. Drop every timestep whose argmax is the blank class (index 0).
//  3. Collapse the remaining sequence's consecutive equal-label runs into a
//     single emitted character per run.
//  4. Confidence is the geometric mean, across emitted characters, of the
//     maximum per-timestep probability within that character's contributing
//     run.
//
// Blank removal happens before duplicate-collapsing, not after: a blank
// between two equal labels does not cause them to be treated as separate
// characters, since the blank itself has already been discarded by the time
// runs are collapsed.
func Postprocess(logits tensor.Tensor, dict *Dictionary) []Decoded {
	if len(logits.Shape) != 3 {
		return nil
	}
	n, t, c := int(logits.Shape[0]), int(logits.Shape[1]), int(logits.Shape[2])
	out := make([]Decoded, n)
	for bi := 0; bi < n; bi++ {
		labels := make([]int, 0, t)
		probs := make([]float64, 0, t)
		for ti := 0; ti < t; ti++ {
			base := (bi*t + ti) * c
			bestIdx, bestVal := 0, float32(-math.MaxFloat32)
			for ci := 0; ci < c; ci++ {
				v := logits.Data[base+ci]
				if v > bestVal {
					bestVal, bestIdx = v, ci
				}
			}
			if bestIdx == 0 {
				continue // blank: dropped before collapsing
			}
			labels = append(labels, bestIdx)
			probs = append(probs, float64(bestVal))
		}
		out[bi] = collapse(labels, probs, dict)
	}
	return out
}

func collapse(labels []int, probs []float64, dict *Dictionary) Decoded {
	if len(labels) == 0 {
		return Decoded{}
	}
	var runes []rune
	logSum := 0.0
	count := 0

	runStart := 0
	flush := func(end int) {
		label := labels[runStart]
		runMax := probs[runStart]
		for i := runStart + 1; i < end; i++ {
			if probs[i] > runMax {
				runMax = probs[i]
			}
		}
		if r, ok := dict.Rune(label); ok {
			runes = append(runes, r)
		}
		if runMax > 0 {
			logSum += math.Log(runMax)
		}
		count++
	}

	for i := 1; i <= len(labels); i++ {
		if i == len(labels) || labels[i] != labels[runStart] {
			flush(i)
			runStart = i
		}
	}

	conf := 0.0
	if count > 0 {
		conf = math.Exp(logSum / float64(count))
	}
	return Decoded{Text: string(runes), Confidence: conf}
}
