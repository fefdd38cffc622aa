// Package trial runs one calibration trial: render the input templates for
// a candidate parameter vector, invoke the external simulator (and,
// optionally, a separate evaluator), and read back the resulting error.
package trial

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jburguete/calibrator/pkg/calibspec"
	"github.com/jburguete/calibrator/pkg/template"
)

// ErrSimulatorFailed is wrapped by a non-zero simulator exit, the fatal
// outcome the search aborts on.
var ErrSimulatorFailed = errors.New("simulator exited non-zero")

// Runner evaluates trials against one CalibrationSpec, reusing a scratch
// directory for the rendered inputs and simulator/evaluator outputs.
type Runner struct {
	Spec      *calibspec.CalibrationSpec
	ScratchDir string
	KeepScratch bool // when true (the --debug flag), scratch files are not removed
}

// NewRunner creates a Runner rooted at scratchDir, which must already exist.
func NewRunner(spec *calibspec.CalibrationSpec, scratchDir string, keepScratch bool) *Runner {
	return &Runner{Spec: spec, ScratchDir: scratchDir, KeepScratch: keepScratch}
}

// Evaluate runs every experiment in the spec for the given candidate vector
// and returns the weighted sum of their errors: experiments are summed
// sequentially, not averaged, matching calibrate_parse's plain accumulation
// in the original (e += weight * calibrate_parse(i, j), with no division by
// total weight). trialID namespaces this trial's scratch files so concurrent
// workers never collide.
func (r *Runner) Evaluate(ctx context.Context, trialID int, values []float64) (float64, error) {
	var total float64
	for e, exp := range r.Spec.Experiments {
		errVal, err := r.runExperiment(ctx, trialID, e, exp, values)
		if err != nil {
			return 0, err
		}
		total += exp.Weight * errVal
	}
	return total, nil
}

func (r *Runner) runExperiment(ctx context.Context, trialID, expIndex int, exp calibspec.Experiment, values []float64) (float64, error) {
	guard, err := newScratchGuard(r.ScratchDir, trialID, expIndex, exp.Name, r.KeepScratch)
	if err != nil {
		return 0, err
	}
	defer guard.cleanup()

	var inputs [calibspec.MaxInputs]string
	for k, tmpl := range exp.Template {
		if tmpl == "" {
			continue
		}
		inputs[k] = guard.path(fmt.Sprintf("in%d", k))
		if err := template.RenderFile(tmpl, inputs[k], r.Spec.Variables, values); err != nil {
			return 0, err
		}
	}

	simOut := guard.path("sim.out")
	if err := runArgv(ctx, r.Spec.Simulator, append(inputs[:], simOut)...); err != nil {
		return 0, fmt.Errorf("%w: experiment %q: %v", ErrSimulatorFailed, exp.Name, err)
	}

	if r.Spec.Evaluator == "" {
		return readFirstLineFloat(simOut)
	}

	resultFile := guard.path("result")
	dataFile := exp.DataFile
	if !exp.HasData {
		dataFile = ""
	}
	if err := runArgv(ctx, r.Spec.Evaluator, simOut, dataFile, resultFile); err != nil {
		return 0, fmt.Errorf("evaluator failed for experiment %q: %w", exp.Name, err)
	}
	return readFirstLineFloat(resultFile)
}

// runArgv invokes name with args as a direct argv vector, never through a
// shell, so no value ever needs shell quoting.
func runArgv(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

type scratchGuard struct {
	dir  string
	keep bool
}

// newScratchGuard names the scratch directory from (trial index, experiment
// index, experiment name); that triple is unique per the uniqueness rule
// that no two concurrent trials share (trial_index, experiment_index). The
// uuid suffix additionally guards against reuse across refinement
// iterations, which replay the same trial indices.
func newScratchGuard(root string, trialID, expIndex int, expName string, keep bool) (*scratchGuard, error) {
	dir := filepath.Join(root, fmt.Sprintf("trial-%d-exp-%d-%s-%s", trialID, expIndex, sanitize(expName), uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	return &scratchGuard{dir: dir, keep: keep}, nil
}

func (g *scratchGuard) path(name string) string {
	return filepath.Join(g.dir, name)
}

func (g *scratchGuard) cleanup() {
	if g.keep {
		return
	}
	_ = os.RemoveAll(g.dir)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
