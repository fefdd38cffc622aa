package genetic

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelConvergesOnSimpleQuadraticObjective(t *testing.T) {
	vars := []VariableSpec{{Name: "x", Min: -10, Max: 10, NBits: 12}}
	cfg := Config{
		NPopulation:  24,
		NGenerations: 40,
		Mutation:     0.2,
		Reproduction: 0.5,
		Adaptation:   0.1,
		Seed:         42,
	}

	objective := func(ctx context.Context, values []float64) (float64, error) {
		return (values[0] - 3) * (values[0] - 3), nil
	}

	result, err := New().Run(context.Background(), vars, cfg, objective)
	require.NoError(t, err)
	assert.True(t, math.Abs(result.Values[0]-3) < 1.0, "expected x close to 3, got %v", result.Values[0])
}

func TestKernelRejectsTooSmallPopulation(t *testing.T) {
	_, err := New().Run(context.Background(), nil, Config{NPopulation: 1, NGenerations: 1}, nil)
	assert.Error(t, err)
}
