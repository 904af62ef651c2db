// Package config holds the run options for the flatten pipeline.
package config

//go:generate go run ../tools/schema-generator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExportConfig names the artifact files written into each run's output
// directory.
type ExportConfig struct {
	FlatName     string `yaml:"flat_name,omitempty"`
	CompactName  string `yaml:"compact_name,omitempty"`
	ManifestName string `yaml:"manifest_name,omitempty"`
}

// Config is the top-level configuration structure for the flattener.
type Config struct {
	// CoalesceGapSec controls compact-export window merging: intervals
	// whose gap is at most this many seconds share a window.
	// 0 (default): only true overlaps merge.
	CoalesceGapSec float64 `yaml:"coalesce_gap_sec,omitempty"`

	// Workers bounds concurrent parser invocations per asset.
	// 0 (default): one worker per CPU.
	Workers int `yaml:"workers,omitempty"`

	// DisabledParsers lists extractor names to skip even when their result
	// keys are present.
	DisabledParsers []string `yaml:"disabled_parsers,omitempty"`

	Export ExportConfig `yaml:"export,omitempty"`
}

// Default returns the zero-value configuration with export names filled in.
func Default() Config {
	return Config{
		Export: ExportConfig{
			FlatName:     "flat.csv",
			CompactName:  "compact.json",
			ManifestName: "manifest.json",
		},
	}
}

// Load reads a YAML config file, overlaying it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
