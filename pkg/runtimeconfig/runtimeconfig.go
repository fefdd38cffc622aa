// Package runtimeconfig holds operational defaults for the calibrator
// binary itself (thread count, debug mode, result file conventions) — not
// the calibration document (see pkg/calibspec), but the ambient "how does
// this binary run" settings every cobra-based tool in this family reads
// from an optional YAML file before flags override it.
package runtimeconfig

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the calibrator binary's own operational configuration.
type Config struct {
	NThreads   int    `yaml:"nthreads"`
	NTasks     int    `yaml:"ntasks"`
	TaskID     int    `yaml:"taskid"`
	Debug      bool   `yaml:"debug"`
	Format     string `yaml:"format"`
	ResultFile string `yaml:"result_file"`
	Seed       int64  `yaml:"seed"`
}

// Default returns sane defaults: one task, one thread per CPU, text
// progress output, and a deterministic-by-default seed of 1.
func Default() *Config {
	return &Config{
		NThreads:   runtime.NumCPU(),
		NTasks:     1,
		TaskID:     0,
		Debug:      false,
		Format:     "text",
		ResultFile: "calibrate.out",
		Seed:       1,
	}
}

// Load reads a YAML runtime config file if it exists, falling back to
// Default when the path is empty or the file is absent.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading runtime config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing runtime config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the operational config is internally consistent.
func (c *Config) Validate() error {
	if c.NThreads < 1 {
		return fmt.Errorf("nthreads must be >= 1")
	}
	if c.NTasks < 1 {
		return fmt.Errorf("ntasks must be >= 1")
	}
	if c.TaskID < 0 || c.TaskID >= c.NTasks {
		return fmt.Errorf("taskid must be in [0, ntasks)")
	}
	switch c.Format {
	case "text", "json", "tui":
	default:
		return fmt.Errorf("format must be one of text, json, tui")
	}
	return nil
}
