package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jburguete/calibrator/pkg/calibspec"
)

func TestSweepTotalIsProductOfAxisCounts(t *testing.T) {
	vars := []calibspec.Variable{
		{NSweeps: 4},
		{NSweeps: 3},
	}
	assert.Equal(t, 12, SweepTotal(vars))
}

func TestSweepValuesDecodesLeastSignificantAxisFirst(t *testing.T) {
	vars := []calibspec.Variable{
		{RangeMin: 0, RangeMax: 10, NSweeps: 4},
		{RangeMin: 0, RangeMax: 1, NSweeps: 3},
	}
	// s = 6 with nsweeps = [4,3]: l0 = 6 % 4 = 2, k = 6/4 = 1, l1 = 1 % 3 = 1
	values := SweepValues(vars, 6)
	assert.InDelta(t, 10.0*2.0/3.0, values[0], 1e-9)
	assert.InDelta(t, 0.5, values[1], 1e-9)
}

func TestSweepValuesSingleLevelPinsToRangeMin(t *testing.T) {
	vars := []calibspec.Variable{{RangeMin: 2, RangeMax: 9, NSweeps: 1}}
	values := SweepValues(vars, 0)
	assert.Equal(t, 2.0, values[0])
}

func TestSweepValuesCoversFullCartesianProduct(t *testing.T) {
	vars := []calibspec.Variable{
		{RangeMin: 0, RangeMax: 1, NSweeps: 2},
		{RangeMin: 0, RangeMax: 1, NSweeps: 2},
	}
	seen := map[[2]float64]bool{}
	for s := 0; s < SweepTotal(vars); s++ {
		v := SweepValues(vars, s)
		seen[[2]float64{v[0], v[1]}] = true
	}
	assert.Len(t, seen, 4)
}
