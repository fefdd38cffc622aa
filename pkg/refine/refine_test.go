package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jburguete/calibrator/pkg/calibspec"
)

func TestContractNarrowsAroundSurvivorsWithToleranceHalfWidth(t *testing.T) {
	vars := []calibspec.Variable{
		{Name: "x", RangeMin: 0, RangeMax: 100, AbsMin: -1000, AbsMax: 1000},
	}
	vectors := [][]float64{{10}, {30}}
	tolerance := 0.5

	out := Contract(vars, vectors, tolerance)

	// lo=10, hi=30, d = 0.5*0.5*(30-10) = 5
	assert.Equal(t, 5.0, out[0].RangeMin)
	assert.Equal(t, 35.0, out[0].RangeMax)
}

func TestContractClampsToAbsoluteBounds(t *testing.T) {
	vars := []calibspec.Variable{
		{Name: "x", RangeMin: 0, RangeMax: 100, AbsMin: 8, AbsMax: 32},
	}
	vectors := [][]float64{{10}, {30}}

	out := Contract(vars, vectors, 0.5)

	assert.Equal(t, 8.0, out[0].RangeMin)  // would be 5, clamped up to AbsMin
	assert.Equal(t, 32.0, out[0].RangeMax) // would be 35, clamped down to AbsMax
}

func TestContractWithNoSurvivorsReturnsRangesUnchanged(t *testing.T) {
	vars := []calibspec.Variable{{Name: "x", RangeMin: 1, RangeMax: 2}}
	out := Contract(vars, nil, 0.5)
	assert.Equal(t, vars, out)
}
