package algorithm

import "github.com/jburguete/calibrator/pkg/calibspec"

// SweepTotal returns the total number of sweep trials: the product of each
// variable's nsweeps, since every axis is swept independently.
func SweepTotal(vars []calibspec.Variable) int {
	total := 1
	for _, v := range vars {
		n := v.NSweeps
		if n < 1 {
			n = 1
		}
		total *= n
	}
	return total
}

// SweepValues decodes trial index s into a parameter vector via mixed-radix
// decomposition, least-significant axis first: each axis's level l_i comes
// from s mod nsweeps[i], then s is divided by nsweeps[i] before moving to
// the next axis. The level maps onto the variable's range linearly, with a
// single level (nsweeps == 1) pinned to range_min.
func SweepValues(vars []calibspec.Variable, s int) []float64 {
	values := make([]float64, len(vars))
	k := s
	for i, v := range vars {
		n := v.NSweeps
		if n < 1 {
			n = 1
		}
		l := k % n
		k /= n
		if n > 1 {
			values[i] = v.RangeMin + float64(l)*(v.RangeMax-v.RangeMin)/float64(n-1)
		} else {
			values[i] = v.RangeMin
		}
	}
	return values
}
