package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jburguete/calibrator/pkg/calibrate"
	"github.com/jburguete/calibrator/pkg/calibspec"
	"github.com/jburguete/calibrator/pkg/reporting"
	"github.com/jburguete/calibrator/pkg/runtimeconfig"
	"github.com/jburguete/calibrator/pkg/transport"
)

var (
	flagInput      string
	flagNThreads   int
	flagNTasks     int
	flagTaskID     int
	flagDebug      bool
	flagFormat     string
	flagSeed       int64
	flagResultFile string
	flagCoordAddr  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a calibration against an input document",
	RunE:  runCalibration,
}

func init() {
	runCmd.Flags().StringVar(&flagInput, "input", "", "path to the calibration XML document (required)")
	runCmd.Flags().IntVar(&flagNThreads, "nthreads", 0, "worker threads per task (default: number of CPUs)")
	runCmd.Flags().IntVar(&flagNTasks, "ntasks", 1, "total number of distributed tasks")
	runCmd.Flags().IntVar(&flagTaskID, "taskid", 0, "this process's task rank (0 is the merge coordinator)")
	runCmd.Flags().BoolVar(&flagDebug, "debug", false, "keep scratch files and enable debug logging")
	runCmd.Flags().StringVar(&flagFormat, "format", "text", "progress output format: text, json, or tui")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 1, "PRNG seed for Monte-Carlo and genetic runs")
	runCmd.Flags().StringVar(&flagResultFile, "result", "", "result file path (default: the runtime config's result_file, calibrate.out)")
	runCmd.Flags().StringVar(&flagCoordAddr, "coordinator", "", "coordinator tcp address (required when ntasks > 1)")
	runCmd.MarkFlagRequired("input")
}

func runCalibration(cmd *cobra.Command, args []string) error {
	rcfg, err := runtimeconfig.Load(cfgFile)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, rcfg)
	if err := rcfg.Validate(); err != nil {
		return err
	}

	logLevel := reporting.LogLevelInfo
	if verbose || rcfg.Debug {
		logLevel = reporting.LogLevelDebug
	}
	logger := reporting.NewLogger(reporting.LoggerConfig{Level: logLevel, Format: reporting.LogFormatText})
	progress := reporting.NewProgressReporter(reporting.OutputFormat(rcfg.Format), logger)

	spec, err := calibspec.ReadFile(flagInput)
	if err != nil {
		return err
	}

	resultFile := flagResultFile
	if resultFile == "" {
		resultFile = rcfg.ResultFile
	}

	scratchDir, err := os.MkdirTemp("", "calibrator-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	if !rcfg.Debug {
		defer os.RemoveAll(scratchDir)
	}

	ctx := context.Background()
	var tp transport.Transport
	if rcfg.NTasks > 1 {
		if rcfg.TaskID == 0 {
			tp, err = transport.ListenCoordinator(ctx, flagCoordAddr, rcfg.NTasks)
		} else {
			tp, err = transport.DialCoordinator(ctx, flagCoordAddr, rcfg.TaskID, rcfg.NTasks)
		}
		if err != nil {
			return fmt.Errorf("establishing transport: %w", err)
		}
		defer tp.Close()
	}

	opts := calibrate.Options{
		NThreads:    rcfg.NThreads,
		Seed:        rcfg.Seed,
		ScratchDir:  scratchDir,
		KeepScratch: rcfg.Debug,
		ResultFile:  resultFile,
		Transport:   tp,
	}

	summary, err := calibrate.Run(ctx, spec, opts, progress, logger)
	if err != nil {
		return err
	}

	if tp == nil || tp.Rank() == 0 {
		names := make(map[string]string, len(spec.Variables))
		for i, v := range spec.Variables {
			if i < len(summary.BestValues) {
				names[v.Name] = calibspec.FormatValue(v.Format, summary.BestValues[i])
			}
		}
		progress.ReportRunCompleted(reporting.RunSummary{
			Algorithm:   spec.Algorithm.String(),
			Iterations:  summary.Iterations,
			TotalTrials: summary.TotalTrials,
			Duration:    summary.Duration,
			BestError:   summary.BestError,
			BestValues:  names,
		})
	}
	return nil
}

func applyRunFlags(cmd *cobra.Command, rcfg *runtimeconfig.Config) {
	if flagNThreads > 0 {
		rcfg.NThreads = flagNThreads
	}
	if cmd.Flags().Changed("ntasks") {
		rcfg.NTasks = flagNTasks
	}
	if cmd.Flags().Changed("taskid") {
		rcfg.TaskID = flagTaskID
	}
	if cmd.Flags().Changed("debug") {
		rcfg.Debug = flagDebug
	}
	if cmd.Flags().Changed("format") {
		rcfg.Format = flagFormat
	}
	if cmd.Flags().Changed("seed") {
		rcfg.Seed = flagSeed
	}
}
