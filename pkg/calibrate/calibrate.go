// Package calibrate drives the full calibration run: the iterative
// refinement loop around one algorithm iteration per pass, merging
// distributed tasks and writing the result file after each iteration.
package calibrate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jburguete/calibrator/pkg/algorithm"
	"github.com/jburguete/calibrator/pkg/bestn"
	"github.com/jburguete/calibrator/pkg/calibspec"
	"github.com/jburguete/calibrator/pkg/refine"
	"github.com/jburguete/calibrator/pkg/reporting"
	"github.com/jburguete/calibrator/pkg/transport"
	"github.com/jburguete/calibrator/pkg/trial"
)

// Options configures one calibration run. Spec is mutated in place across
// iterations as its variable ranges narrow.
type Options struct {
	NThreads    int
	Seed        int64
	ScratchDir  string
	KeepScratch bool
	ResultFile  string
	Transport   transport.Transport // nil means single-task (no merge step)
}

// Summary reports the outcome of a completed run.
type Summary struct {
	Iterations  int
	TotalTrials int
	BestError   float64
	BestValues  []float64
	Duration    time.Duration
}

// Run executes spec.NIterations refinement passes, returning the final
// summary. progress and logger may be nil.
func Run(ctx context.Context, spec *calibspec.CalibrationSpec, opts Options, progress *reporting.ProgressReporter, logger *reporting.Logger) (Summary, error) {
	start := time.Now()
	if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating scratch directory: %w", err)
	}

	t := opts.Transport
	isCoordinator := t == nil || t.Rank() == 0

	// oldBest/oldVectors hold the running frontier merged across iterations,
	// per the iterative refiner (§4.7). Entries are reindexed on a private
	// counter because a trial index is only meaningful within the iteration
	// that produced it; reusing it across iterations would alias distinct
	// parameter vectors under the same key. The genetic algorithm does not
	// participate in this merge or in range refinement.
	var oldBest *bestn.Register
	oldVectors := map[int][]float64{}
	nextHistoryID := 0
	if spec.Algorithm != calibspec.AlgorithmGenetic {
		oldBest = bestn.New(spec.NBest)
	}

	summary := Summary{}
	for iter := 1; iter <= spec.NIterations; iter++ {
		iterStart := time.Now()
		runner := trial.NewRunner(spec, opts.ScratchDir, opts.KeepScratch)
		objective := func(ctx context.Context, trialID int, values []float64) (float64, error) {
			return runner.Evaluate(ctx, trialID, values)
		}

		if progress != nil {
			progress.ReportIterationStart(reporting.IterationState{
				Iteration:   iter,
				Algorithm:   spec.Algorithm.String(),
				TrialsTotal: trialCount(spec),
				StartTime:   iterStart,
			})
		}

		result, err := algorithm.RunIteration(ctx, spec, opts.NThreads, opts.Seed+int64(iter), objective, progress)
		if err != nil {
			return summary, fmt.Errorf("iteration %d: %w", iter, err)
		}

		if t != nil {
			if err := transport.Synchronise(ctx, t, result.Register); err != nil {
				return summary, fmt.Errorf("iteration %d: merging tasks: %w", iter, err)
			}
		}

		if !isCoordinator {
			// Non-coordinator tasks have sent their register upstream; they
			// still need the coordinator's refined ranges before the next
			// iteration, or they would search against stale bounds forever.
			// The genetic algorithm never refines ranges, so there is
			// nothing to receive.
			if spec.Algorithm != calibspec.AlgorithmGenetic {
				vars, err := transport.BroadcastRanges(ctx, t, spec.Variables)
				if err != nil {
					return summary, fmt.Errorf("iteration %d: receiving refined ranges: %w", iter, err)
				}
				spec.Variables = vars
			}
			summary.Iterations = iter
			continue
		}

		var best bestn.Entry
		var bestValues []float64
		var survivorVectors [][]float64

		if spec.Algorithm == calibspec.AlgorithmGenetic {
			var ok bool
			best, ok = result.Register.Best()
			if !ok {
				return summary, fmt.Errorf("iteration %d: no trial produced a finite error", iter)
			}
			bestValues = result.Vectors[best.Index]
		} else {
			// Fold this iteration's frontier into the running history under
			// fresh ids, then merge into oldBest (first iteration: just a
			// copy, since oldBest starts empty).
			reindexed := bestn.New(spec.NBest)
			for _, e := range result.Register.Entries() {
				id := nextHistoryID
				nextHistoryID++
				reindexed.Offer(id, e.Error)
				oldVectors[id] = result.Vectors[e.Index]
			}
			oldBest.Merge(reindexed)

			var ok bool
			best, ok = oldBest.Best()
			if !ok {
				return summary, fmt.Errorf("iteration %d: no trial produced a finite error", iter)
			}
			bestValues = oldVectors[best.Index]

			for _, e := range oldBest.Entries() {
				survivorVectors = append(survivorVectors, oldVectors[e.Index])
			}
		}

		if logger != nil {
			logger.Info("iteration complete", "iteration", iter, "best_error", best.Error, "best_trial", best.Index)
		}
		if progress != nil {
			progress.ReportIterationEnd(reporting.IterationState{
				Iteration: iter,
				BestError: best.Error,
				BestTrial: best.Index,
				StartTime: iterStart,
			})
		}

		names := make([]string, len(spec.Variables))
		formatted := make([]string, len(spec.Variables))
		for i, v := range spec.Variables {
			names[i] = v.Name
			formatted[i] = calibspec.FormatValue(v.Format, bestValues[i])
		}
		if opts.ResultFile != "" {
			if err := trial.AppendResult(opts.ResultFile, iter, best.Error, names, formatted); err != nil {
				return summary, fmt.Errorf("iteration %d: writing result file: %w", iter, err)
			}
		}

		// The genetic algorithm does not participate in the iterative
		// refiner: its ranges never contract between iterations.
		if spec.Algorithm != calibspec.AlgorithmGenetic {
			spec.Variables = refine.Contract(spec.Variables, survivorVectors, spec.Tolerance)
			if t != nil {
				if _, err := transport.BroadcastRanges(ctx, t, spec.Variables); err != nil {
					return summary, fmt.Errorf("iteration %d: broadcasting refined ranges: %w", iter, err)
				}
			}
		}

		summary.Iterations = iter
		summary.TotalTrials += trialCount(spec)
		summary.BestError = best.Error
		summary.BestValues = bestValues
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func trialCount(spec *calibspec.CalibrationSpec) int {
	if spec.Algorithm == calibspec.AlgorithmSweep {
		return algorithm.SweepTotal(spec.Variables)
	}
	if spec.Algorithm == calibspec.AlgorithmGenetic {
		return spec.NPopulation * spec.NGenerations
	}
	return spec.NSimulations
}
