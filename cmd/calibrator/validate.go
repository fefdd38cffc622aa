package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jburguete/calibrator/pkg/calibspec"
)

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a calibration document without running any trials",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateInput, "input", "", "path to the calibration XML document (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	spec, err := calibspec.ReadFile(validateInput)
	if err != nil {
		return err
	}
	fmt.Printf("ok: algorithm=%s experiments=%d variables=%d\n",
		spec.Algorithm, len(spec.Experiments), len(spec.Variables))
	return nil
}
