package calibspec

import "fmt"

// Validate checks every invariant a calibration document must satisfy
// before a run starts, in the same order the original reader checked them:
// simulator program, trial counts, algorithm-specific probabilities,
// experiments, then variables.
func (c *CalibrationSpec) Validate() error {
	if c.Simulator == "" {
		return fmt.Errorf("%w: missing simulator program", ErrConfig)
	}
	if c.Algorithm == AlgorithmUnknown {
		return fmt.Errorf("%w: missing or unrecognized algorithm", ErrConfig)
	}
	if c.NIterations < 1 {
		return fmt.Errorf("%w: niterations must be >= 1", ErrConfig)
	}
	if c.NBest < 1 {
		return fmt.Errorf("%w: nbest must be >= 1", ErrConfig)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be >= 0", ErrConfig)
	}

	switch c.Algorithm {
	case AlgorithmMonteCarlo:
		if c.NSimulations < 1 {
			return fmt.Errorf("%w: nsimulations must be >= 1", ErrConfig)
		}
	case AlgorithmGenetic:
		if c.NPopulation < 3 {
			return fmt.Errorf("%w: npopulation must be >= 3", ErrConfig)
		}
		if c.NGenerations < 1 {
			return fmt.Errorf("%w: ngenerations must be >= 1", ErrConfig)
		}
		if c.Mutation < 0 || c.Reproduction < 0 || c.Adaptation < 0 {
			return fmt.Errorf("%w: mutation, reproduction, and adaptation probabilities must be >= 0", ErrConfig)
		}
		nm := int(c.Mutation * float64(c.NPopulation))
		nr := int(c.Reproduction * float64(c.NPopulation))
		na := int(c.Adaptation * float64(c.NPopulation))
		if nm+nr+na > c.NPopulation-2 {
			return fmt.Errorf("%w: mutation+reproduction+adaptation population shares leave fewer than 2 elite individuals", ErrConfig)
		}
	}

	if len(c.Experiments) == 0 {
		return fmt.Errorf("%w: at least one experiment is required", ErrConfig)
	}
	nInputs := -1
	for i, e := range c.Experiments {
		if e.Name == "" {
			return fmt.Errorf("%w: experiment %d missing name", ErrConfig, i)
		}
		count := 0
		for _, t := range e.Template {
			if t != "" {
				count++
			}
		}
		if count == 0 {
			return fmt.Errorf("%w: experiment %q has no template files", ErrConfig, e.Name)
		}
		// The number of input templates is fixed by the first experiment and
		// enforced identical across the rest.
		if nInputs == -1 {
			nInputs = count
		} else if count != nInputs {
			return fmt.Errorf("%w: experiment %q has %d input templates, expected %d like the first experiment", ErrConfig, e.Name, count, nInputs)
		}
	}

	if len(c.Variables) == 0 {
		return fmt.Errorf("%w: at least one variable is required", ErrConfig)
	}
	if len(c.Variables) > MaxInputs {
		return fmt.Errorf("%w: at most %d variables are supported, got %d", ErrConfig, MaxInputs, len(c.Variables))
	}
	for i, v := range c.Variables {
		if v.Name == "" {
			return fmt.Errorf("%w: variable %d missing name", ErrConfig, i)
		}
		if v.RangeMin > v.RangeMax {
			return fmt.Errorf("%w: variable %q has minimum > maximum", ErrConfig, v.Name)
		}
		if v.AbsMin > v.RangeMin {
			return fmt.Errorf("%w: variable %q has range_min below its absolute minimum", ErrConfig, v.Name)
		}
		if v.AbsMax < v.RangeMax {
			return fmt.Errorf("%w: variable %q has range_max above its absolute maximum", ErrConfig, v.Name)
		}
		if c.Algorithm == AlgorithmSweep && v.NSweeps < 1 {
			return fmt.Errorf("%w: variable %q needs nsweeps >= 1 for the sweep algorithm", ErrConfig, v.Name)
		}
		if c.Algorithm == AlgorithmGenetic && (v.NBits < 1 || v.NBits > 64) {
			return fmt.Errorf("%w: variable %q needs nbits in [1, 64] for the genetic algorithm", ErrConfig, v.Name)
		}
	}

	return nil
}
