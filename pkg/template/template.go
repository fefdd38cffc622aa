// Package template performs literal, byte-level placeholder substitution
// for simulator input templates. Placeholders use the @variable<i>@ and
// @value<i>@ grammar; substitution is a plain substring scan, not a regular
// expression, so values containing regex metacharacters are never
// misinterpreted.
package template

import (
	"fmt"
	"os"
	"strings"

	"github.com/jburguete/calibrator/pkg/calibspec"
)

// Placeholder returns the literal placeholder text for one-based variable
// index i, e.g. Placeholder(1) == "@value1@" for vars[0].
func Placeholder(i int) string {
	return fmt.Sprintf("@value%d@", i)
}

// NamePlaceholder returns the literal placeholder for a variable's name,
// one-based, e.g. NamePlaceholder(1) == "@variable1@" for vars[0].
func NamePlaceholder(i int) string {
	return fmt.Sprintf("@variable%d@", i)
}

// Render substitutes every @value<i>@ and @variable<i>@ placeholder in src
// with the formatted value and name of vars[i-1], leaving the template
// untouched wherever a placeholder is absent. i runs one-based over
// [1, len(vars)], matching the document convention.
func Render(src string, vars []calibspec.Variable, values []float64) string {
	out := src
	for i, v := range vars {
		out = strings.ReplaceAll(out, NamePlaceholder(i+1), v.Name)
		out = strings.ReplaceAll(out, Placeholder(i+1), calibspec.FormatValue(v.Format, values[i]))
	}
	return out
}

// RenderFile reads the template at templatePath, substitutes placeholders,
// and writes the result to outPath. An empty templatePath is a no-op,
// matching the document schema where unused input slots are left blank.
func RenderFile(templatePath, outPath string, vars []calibspec.Variable, values []float64) error {
	if templatePath == "" {
		return nil
	}
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", templatePath, err)
	}
	rendered := Render(string(data), vars, values)
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("writing rendered input %s: %w", outPath, err)
	}
	return nil
}
