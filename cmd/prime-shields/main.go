// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the prime-shields CLI.
// Commands: generate, validate, analyze, archive, version.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/prime-shields/internal/logging"
	"github.com/pdiddy/prime-shields/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// flagKeys maps command-line flags to their configuration keys. Flags win
// over PRIME_SHIELDS_* environment variables, which win over the config file.
var flagKeys = map[string]string{
	"verbose":         "log.verbose",
	"log-format":      "log.format",
	"mode":            "generate.mode",
	"save":            "generate.save",
	"json":            "generate.json",
	"archive-dir":     "archive.dir",
	"max-exponent":    "analyze.max_exponent",
	"bins":            "analyze.bins",
	"output-dir":      "analyze.output_dir",
	"segment-size-kb": "analyze.segment_size_kb",
	"gaps":            "analyze.gaps",
	"workers":         "analyze.workers",
}

// app carries the state shared by every command of one execution.
type app struct {
	v   *viper.Viper
	cfg types.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "prime-shields",
		Short: "Generate and study Shield General sequences",
		Long: `prime-shields computes Shield Generals: even integers that sit next to no
multiple of any prime in a growing set {3, 5, 7, ...}. Each new term is found by
a ratchet search over multiples of the primorial of the primes shielded so far.

generate prints the first N terms, validate checks a single value, analyze
studies sums of consecutive primes up to 10^E, and archive manages saved runs.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./prime-shields.yaml or ~/.config/prime-shields/prime-shields.yaml)")
	pf.BoolP("verbose", "v", false, "log at DEBUG level, including ratchet search progress")
	pf.String("log-format", logging.FormatJSON, "log encoding: json or console")

	cmd.AddCommand(
		newGenerateCmd(a),
		newValidateCmd(a),
		newAnalyzeCmd(a),
		newArchiveCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration and builds the logger before any command
// runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.bindFlags(cmd.Flags()); err != nil {
		return err
	}
	setDefaults(a.v, types.DefaultConfig())

	used, err := a.readConfig(cmd)
	if err != nil {
		return err
	}

	var cfg types.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidConfig, err)
	}
	a.cfg = cfg

	if w := cmd.ErrOrStderr(); w != os.Stderr {
		a.log, err = logging.NewWriter(cfg.Log, w)
	} else {
		a.log, err = logging.New(cfg.Log)
	}
	if err != nil {
		return err
	}
	if used != "" {
		a.log.Info("using config file", zap.String("path", used))
	}
	return nil
}

func (a *app) bindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = a.v.BindPFlag(key, f)
	})
	return err
}

// readConfig reads the config file if one exists and returns its path. A
// missing default file is not an error; a missing --config file is.
func (a *app) readConfig(cmd *cobra.Command) (string, error) {
	a.v.SetEnvPrefix("PRIME_SHIELDS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName("prime-shields")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "prime-shields"))
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return a.v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper, cfg types.Config) {
	v.SetDefault("log.verbose", cfg.Log.Verbose)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("generate.mode", string(cfg.Generate.Mode))
	v.SetDefault("generate.save", cfg.Generate.Save)
	v.SetDefault("generate.json", cfg.Generate.JSON)
	v.SetDefault("analyze.max_exponent", cfg.Analyze.MaxExponent)
	v.SetDefault("analyze.bins", cfg.Analyze.Bins)
	v.SetDefault("analyze.output_dir", cfg.Analyze.OutputDir)
	v.SetDefault("analyze.segment_size_kb", cfg.Analyze.SegmentSizeKB)
	v.SetDefault("analyze.gaps", cfg.Analyze.Gaps)
	v.SetDefault("analyze.workers", cfg.Analyze.Workers)
	v.SetDefault("archive.dir", cfg.Archive.Dir)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
