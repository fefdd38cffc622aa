package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jburguete/calibrator/pkg/calibspec"
)

func TestRenderSubstitutesNameAndValuePlaceholders(t *testing.T) {
	vars := []calibspec.Variable{
		{Name: "k", Format: "%.2f"},
		{Name: "n", Format: "%.0f"},
	}
	src := "param @variable1@ = @value1@, count @variable2@ = @value2@"
	out := Render(src, vars, []float64{3.14159, 7})

	assert.Equal(t, "param k = 3.14, count n = 7", out)
}

func TestRenderLeavesLiteralRegexMetacharactersAlone(t *testing.T) {
	vars := []calibspec.Variable{{Name: "x.*", Format: "%.1f"}}
	src := "@variable1@ -> @value1@ (x.* unaffected elsewhere: x.*)"
	out := Render(src, vars, []float64{1.5})

	assert.Equal(t, "x.* -> 1.5 (x.* unaffected elsewhere: x.*)", out)
}

func TestRenderLeavesUnmatchedPlaceholdersUntouched(t *testing.T) {
	vars := []calibspec.Variable{{Name: "only", Format: "%.0f"}}
	out := Render("@value1@ and @value2@", vars, []float64{9})

	assert.Equal(t, "9 and @value2@", out)
}
