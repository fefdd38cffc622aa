// Package refine implements the outer range-contraction loop: after each
// search iteration, every variable's range is narrowed around the
// surviving Best-N frontier and expanded by a tolerance half-width, clamped
// to the variable's absolute bounds.
package refine

import "github.com/jburguete/calibrator/pkg/calibspec"

// Contract narrows every variable's [RangeMin, RangeMax] to the span the
// surviving vectors occupy, expanded by tolerance * span / 2 on each side
// and clamped to the variable's absolute bounds. vectors holds one
// parameter vector per surviving trial, in the calibration document's
// variable order.
func Contract(vars []calibspec.Variable, vectors [][]float64, tolerance float64) []calibspec.Variable {
	out := make([]calibspec.Variable, len(vars))
	copy(out, vars)
	if len(vectors) == 0 {
		return out
	}

	for i := range out {
		lo, hi := vectors[0][i], vectors[0][i]
		for _, v := range vectors[1:] {
			if v[i] < lo {
				lo = v[i]
			}
			if v[i] > hi {
				hi = v[i]
			}
		}
		d := 0.5 * tolerance * (hi - lo)
		newMin := lo - d
		newMax := hi + d
		if newMin < out[i].AbsMin {
			newMin = out[i].AbsMin
		}
		if newMax > out[i].AbsMax {
			newMax = out[i].AbsMax
		}
		out[i].RangeMin = newMin
		out[i].RangeMax = newMax
	}
	return out
}
