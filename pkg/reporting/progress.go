package reporting

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OutputFormat represents the progress output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatTUI  OutputFormat = "tui"
)

// IterationState describes where a calibration run currently stands.
type IterationState struct {
	Iteration    int
	Algorithm    string
	TrialsDone   int
	TrialsTotal  int
	BestError    float64
	BestTrial    int
	StartTime    time.Time
}

// TrialOutcome reports the result of a single trial.
type TrialOutcome struct {
	Index int
	Error float64
	Saved bool
}

// RunSummary is printed once the whole calibration (all iterations) completes.
type RunSummary struct {
	Algorithm   string
	Iterations  int
	TotalTrials int
	Duration    time.Duration
	BestError   float64
	BestValues  map[string]string
}

// ProgressReporter reports calibration run progress.
type ProgressReporter struct {
	format OutputFormat
	logger *Logger
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(format OutputFormat, logger *Logger) *ProgressReporter {
	return &ProgressReporter{
		format: format,
		logger: logger,
	}
}

// ReportIterationStart reports the beginning of a refinement iteration.
func (pr *ProgressReporter) ReportIterationStart(state IterationState) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "iteration_start",
			"iteration": state.Iteration,
			"algorithm": state.Algorithm,
			"trials":    state.TrialsTotal,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearLine()
		fmt.Printf("▶ Iteration %d (%s): %d trials\n", state.Iteration, state.Algorithm, state.TrialsTotal)
	default:
		fmt.Printf("[ITER %d] %s: %d trials queued\n", state.Iteration, state.Algorithm, state.TrialsTotal)
	}
}

// ReportTrial reports a single trial's outcome.
func (pr *ProgressReporter) ReportTrial(outcome TrialOutcome) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":     "trial",
			"index":     outcome.Index,
			"error":     outcome.Error,
			"saved":     outcome.Saved,
			"timestamp": time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		if outcome.Saved {
			fmt.Printf("  ★ trial %d error=%e (kept)\n", outcome.Index, outcome.Error)
		}
	default:
		if outcome.Saved {
			fmt.Printf("[TRIAL] %d error=%e (kept)\n", outcome.Index, outcome.Error)
		}
	}
}

// ReportIterationEnd reports the end of a refinement iteration.
func (pr *ProgressReporter) ReportIterationEnd(state IterationState) {
	elapsed := time.Since(state.StartTime).Round(time.Millisecond)
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":      "iteration_end",
			"iteration":  state.Iteration,
			"best_error": state.BestError,
			"best_trial": state.BestTrial,
			"elapsed_ms": elapsed.Milliseconds(),
			"timestamp":  time.Now(),
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearLine()
		fmt.Printf("■ Iteration %d done in %s: best error=%e (trial %d)\n",
			state.Iteration, elapsed, state.BestError, state.BestTrial)
	default:
		fmt.Printf("[ITER %d] done in %s, best error=%e (trial %d)\n",
			state.Iteration, elapsed, state.BestError, state.BestTrial)
	}
}

// ReportRunCompleted reports the final calibration summary.
func (pr *ProgressReporter) ReportRunCompleted(summary RunSummary) {
	switch pr.format {
	case FormatJSON:
		data, _ := json.Marshal(map[string]interface{}{
			"event":   "run_completed",
			"summary": summary,
		})
		fmt.Println(string(data))
	case FormatTUI:
		pr.clearScreen()
		pr.printSummary(summary)
	default:
		pr.printSummary(summary)
	}
}

func (pr *ProgressReporter) printSummary(summary RunSummary) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("CALIBRATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Algorithm:  %s\n", summary.Algorithm)
	fmt.Printf("Iterations: %d\n", summary.Iterations)
	fmt.Printf("Trials:     %d\n", summary.TotalTrials)
	fmt.Printf("Duration:   %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Printf("Best error: %e\n", summary.BestError)
	if len(summary.BestValues) > 0 {
		fmt.Println("Best values:")
		for name, value := range summary.BestValues {
			fmt.Printf("  %s = %s\n", name, value)
		}
	}
	fmt.Println(strings.Repeat("=", 60))
}

func (pr *ProgressReporter) clearScreen() {
	fmt.Print("\033[2J\033[H")
}

func (pr *ProgressReporter) clearLine() {
	fmt.Print("\033[K")
}
