// Command calibrator searches an external simulator's parameter space to
// minimize a weighted experiment error, driven by an XML calibration
// document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "calibrator",
	Short: "Calibrate simulator parameters against experimental data",
	Long: `calibrator searches a bounded parameter space for the simulator
inputs that best reproduce a set of weighted experiments, using a sweep,
Monte-Carlo, or genetic search, refined over successive iterations.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "runtime config file (YAML, optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
