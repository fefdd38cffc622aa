// Package algorithm dispatches one calibration iteration to the search
// strategy (sweep, Monte-Carlo, or genetic) a calibration document names,
// fanning trials out across a thread pool and collecting survivors into a
// Best-N register.
package algorithm

import (
	"context"
	"fmt"
	"sync"

	"github.com/jburguete/calibrator/pkg/bestn"
	"github.com/jburguete/calibrator/pkg/calibspec"
	"github.com/jburguete/calibrator/pkg/genetic"
	"github.com/jburguete/calibrator/pkg/pool"
	"github.com/jburguete/calibrator/pkg/reporting"
)

// Objective evaluates a candidate parameter vector, delegating to a
// trial.Runner in production and a stub in tests.
type Objective func(ctx context.Context, trialID int, values []float64) (float64, error)

// IterationResult carries every trial vector evaluated this iteration,
// indexed by trial ID, so the refiner can look back up a Best-N entry's
// parameter vector.
type IterationResult struct {
	Register *bestn.Register
	Vectors  map[int][]float64
}

// RunIteration evaluates one refinement-loop iteration against the current
// variable ranges in spec, dispatched by spec.Algorithm. nthreads controls
// the thread pool used by sweep and Monte-Carlo; genetic is single-stream
// because its population already amortizes parallelism across generations
// and keeping one RNG stream keeps runs reproducible.
func RunIteration(ctx context.Context, spec *calibspec.CalibrationSpec, nthreads int, seed int64, objective Objective, progress *reporting.ProgressReporter) (*IterationResult, error) {
	switch spec.Algorithm {
	case calibspec.AlgorithmSweep:
		return runSweep(ctx, spec, nthreads, objective, progress)
	case calibspec.AlgorithmMonteCarlo:
		return runMonteCarlo(ctx, spec, nthreads, seed, objective, progress)
	case calibspec.AlgorithmGenetic:
		return runGenetic(ctx, spec, seed, objective, progress)
	default:
		return nil, fmt.Errorf("algorithm: unsupported algorithm %v", spec.Algorithm)
	}
}

func newIterationResult(capacity int) *IterationResult {
	return &IterationResult{
		Register: bestn.New(capacity),
		Vectors:  make(map[int][]float64, capacity),
	}
}

func runSweep(ctx context.Context, spec *calibspec.CalibrationSpec, nthreads int, objective Objective, progress *reporting.ProgressReporter) (*IterationResult, error) {
	total := SweepTotal(spec.Variables)
	result := newIterationResult(spec.NBest)
	var mu sync.Mutex
	err := pool.Run(ctx, 0, total, nthreads, func(ctx context.Context, trialID int) error {
		values := SweepValues(spec.Variables, trialID)
		errVal, err := objective(ctx, trialID, values)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Register.Offer(trialID, errVal)
		result.Vectors[trialID] = values
		mu.Unlock()
		if progress != nil {
			progress.ReportTrial(reporting.TrialOutcome{Index: trialID, Error: errVal, Saved: true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func runMonteCarlo(ctx context.Context, spec *calibspec.CalibrationSpec, nthreads int, seed int64, objective Objective, progress *reporting.ProgressReporter) (*IterationResult, error) {
	result := newIterationResult(spec.NBest)
	var mu sync.Mutex

	if nthreads <= 1 {
		sampler := NewMonteCarloSampler(seed)
		for i := 0; i < spec.NSimulations; i++ {
			values := sampler.Sample(spec.Variables)
			errVal, err := objective(ctx, i, values)
			if err != nil {
				return nil, err
			}
			result.Register.Offer(i, errVal)
			result.Vectors[i] = values
			if progress != nil {
				progress.ReportTrial(reporting.TrialOutcome{Index: i, Error: errVal, Saved: true})
			}
		}
		return result, nil
	}

	// Each trial gets its own sampler stream, seeded off the base seed and
	// the trial's index, so the run stays deterministic for a fixed
	// (seed, nthreads) pair without workers contending on one shared
	// *rand.Rand.
	err := pool.Run(ctx, 0, spec.NSimulations, nthreads, func(ctx context.Context, trialID int) error {
		sampler := NewMonteCarloSampler(seed + int64(trialID))
		values := sampler.Sample(spec.Variables)
		errVal, err := objective(ctx, trialID, values)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Register.Offer(trialID, errVal)
		result.Vectors[trialID] = values
		mu.Unlock()
		if progress != nil {
			progress.ReportTrial(reporting.TrialOutcome{Index: trialID, Error: errVal, Saved: true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func runGenetic(ctx context.Context, spec *calibspec.CalibrationSpec, seed int64, objective Objective, progress *reporting.ProgressReporter) (*IterationResult, error) {
	kernel := genetic.New()
	vars := make([]genetic.VariableSpec, len(spec.Variables))
	for i, v := range spec.Variables {
		vars[i] = genetic.VariableSpec{Name: v.Name, Min: v.RangeMin, Max: v.RangeMax, NBits: v.NBits}
	}

	cfg := genetic.Config{
		NPopulation:  spec.NPopulation,
		NGenerations: spec.NGenerations,
		Mutation:     spec.Mutation,
		Reproduction: spec.Reproduction,
		Adaptation:   spec.Adaptation,
		Seed:         seed,
	}

	result := newIterationResult(spec.NBest)
	trialID := 0
	geneticObjective := func(ctx context.Context, values []float64) (float64, error) {
		errVal, err := objective(ctx, trialID, values)
		if err != nil {
			return 0, err
		}
		result.Register.Offer(trialID, errVal)
		result.Vectors[trialID] = append([]float64(nil), values...)
		if progress != nil {
			progress.ReportTrial(reporting.TrialOutcome{Index: trialID, Error: errVal, Saved: true})
		}
		trialID++
		return errVal, nil
	}

	if _, err := kernel.Run(ctx, vars, cfg, geneticObjective); err != nil {
		return nil, err
	}
	return result, nil
}
