// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prime-shields/internal/gaps"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze sums of consecutive primes up to 10^E",
		Long: `Analyze sieves every prime p up to N = 10^E and, for each pair of
consecutive primes, records the gap p - p_prev and whether S = p_prev + p - 1
is prime. Results are binned over [0, 2N] and written as CSV to --output-dir:

  global_stats.csv        total primes, S-primes and their ratio
  gap_spectrum.csv        per gap size: occurrences, S-prime rate, shield score
  oscillation_series.csv  per bin: prime counts and the rate of each --gaps size`,
		Args: cobra.NoArgs,
		RunE: a.runAnalyze,
	}

	cmd.Flags().Uint32P("max-exponent", "E", 0, "analyze primes up to 10^E (1-12, required)")
	cmd.Flags().IntP("bins", "b", 1000, "number of bins over [0, 2N]")
	cmd.Flags().StringP("output-dir", "o", "results", "directory for the CSV files")
	cmd.Flags().Int("segment-size-kb", 128, "sieve segment size in KB")
	cmd.Flags().IntSlice("gaps", []int{2, 4, 6, 12, 30}, "gap sizes tracked per bin")
	cmd.Flags().Int("workers", 0, "concurrent batch workers (0 = GOMAXPROCS)")
	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, err := gaps.New(a.cfg.Analyze, a.log)
	if err != nil {
		return err
	}

	stats, err := analyzer.Run(cmd.Context())
	if err != nil {
		return err
	}

	paths, err := gaps.WriteResults(a.cfg.Analyze.OutputDir, stats, analyzer.MaxN())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Primes up to %d: %d\n", analyzer.MaxN(), stats.TotalPrimes)
	fmt.Fprintf(out, "S-primes: %d (ratio %.6f)\n", stats.TotalSPrimes, stats.Ratio())
	for _, p := range paths {
		fmt.Fprintf(out, "Wrote %s\n", p)
	}
	return nil
}
