// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// LogConfig holds settings for the zap logger built by the CLI.
type LogConfig struct {
	// Verbose lowers the level to DEBUG.
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`

	// Format selects the encoder: "json" (default) or "console".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// GenerateConfig holds settings for the generate command.
type GenerateConfig struct {
	// Mode selects which residues of a new prime the ratchet accepts.
	Mode ShieldMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Save stores every generated sequence in the run archive.
	Save bool `json:"save" yaml:"save" mapstructure:"save"`

	// JSON prints terms as JSON instead of the text table.
	JSON bool `json:"json" yaml:"json" mapstructure:"json"`
}

// AnalyzeConfig holds settings for the prime gap analyzer.
type AnalyzeConfig struct {
	// MaxExponent bounds the analysis at N = 10^MaxExponent.
	MaxExponent uint32 `json:"max_exponent" yaml:"max_exponent" mapstructure:"max_exponent"`

	// Bins is the number of resolution bins for the oscillation series
	// (default 1000).
	Bins int `json:"bins" yaml:"bins" mapstructure:"bins"`

	// OutputDir is the directory CSV files are written to (default "results").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// SegmentSizeKB is the sieve segment size in kilobytes (default 128).
	SegmentSizeKB int `json:"segment_size_kb" yaml:"segment_size_kb" mapstructure:"segment_size_kb"`

	// Gaps lists the prime gap sizes tracked per bin. Each must be even and
	// positive; 1 is also allowed.
	Gaps []uint64 `json:"gaps" yaml:"gaps" mapstructure:"gaps"`

	// Workers bounds the number of concurrent batch workers (0 = GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// Validate checks the analyzer settings that cannot be defaulted.
func (c AnalyzeConfig) Validate() error {
	if c.MaxExponent == 0 || c.MaxExponent > 12 {
		return fmt.Errorf("%w: max exponent must be between 1 and 12, got %d", ErrInvalidConfig, c.MaxExponent)
	}
	if c.Bins <= 0 {
		return fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidConfig, c.Bins)
	}
	if c.SegmentSizeKB <= 0 {
		return fmt.Errorf("%w: segment size must be positive, got %d KB", ErrInvalidConfig, c.SegmentSizeKB)
	}
	if len(c.Gaps) == 0 {
		return fmt.Errorf("%w: no gap sizes provided", ErrInvalidConfig)
	}
	for _, g := range c.Gaps {
		if g == 0 {
			return fmt.Errorf("%w: gap size cannot be 0", ErrInvalidConfig)
		}
		if g%2 != 0 && g != 1 {
			return fmt.Errorf("%w: gap size %d is odd", ErrInvalidConfig, g)
		}
	}
	return nil
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Dir is the directory holding shields.db and export files
	// (default "archive").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups every setting read from flags, environment and the config
// file.
type Config struct {
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Generate GenerateConfig `json:"generate" yaml:"generate" mapstructure:"generate"`
	Analyze  AnalyzeConfig  `json:"analyze" yaml:"analyze" mapstructure:"analyze"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Log:      LogConfig{Format: "json"},
		Generate: GenerateConfig{Mode: DefaultShieldMode},
		Analyze: AnalyzeConfig{
			Bins:          1000,
			OutputDir:     "results",
			SegmentSizeKB: 128,
			Gaps:          []uint64{2, 4, 6, 12, 30},
		},
		Archive: ArchiveConfig{Dir: "archive"},
	}
}
