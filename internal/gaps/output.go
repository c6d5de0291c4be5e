// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gaps

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/prime-shields/internal/shield"
)

// Output file names written by WriteResults.
const (
	GlobalStatsFile       = "global_stats.csv"
	GapSpectrumFile       = "gap_spectrum.csv"
	OscillationSeriesFile = "oscillation_series.csv"
)

// WriteResults writes the three CSV files for stats into dir, creating it
// if needed, and returns their paths.
func WriteResults(dir string, stats *Statistics, maxN uint64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(*csv.Writer) error
	}{
		{GlobalStatsFile, func(w *csv.Writer) error { return writeGlobalStats(w, stats) }},
		{GapSpectrumFile, func(w *csv.Writer) error { return writeGapSpectrum(w, stats, maxN) }},
		{OscillationSeriesFile, func(w *csv.Writer) error { return writeOscillationSeries(w, stats) }},
	}

	paths := make([]string, 0, len(writers))
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		if err := writeCSV(path, wr.write); err != nil {
			return nil, fmt.Errorf("writing %s: %w", wr.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, fn func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func fmtUint(v uint64) string   { return strconv.FormatUint(v, 10) }
func fmtFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func writeGlobalStats(w *csv.Writer, stats *Statistics) error {
	if err := w.Write([]string{"total_primes_p", "total_primes_s", "global_ratio_s_p"}); err != nil {
		return err
	}
	return w.Write([]string{fmtUint(stats.TotalPrimes), fmtUint(stats.TotalSPrimes), fmtFloat(stats.Ratio())})
}

func writeGapSpectrum(w *csv.Writer, stats *Statistics, maxN uint64) error {
	header := []string{
		"gap_size", "count", "successes", "success_rate",
		"expected_rate_heuristic", "shield_score", "shield_primes", "theoretical_boost",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	expected := 1 / math.Log(float64(maxN))
	for _, g := range stats.SortedGaps() {
		c := stats.Spectrum[g]
		info := shield.Score(g)
		row := []string{
			fmtUint(g), fmtUint(c.Occurrences), fmtUint(c.Successes), fmtFloat(c.Rate()),
			fmtFloat(expected), strconv.Itoa(info.Score), info.PrimeList(), fmtFloat(info.Boost),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeOscillationSeries writes one row per bin that contains primes, with
// the S-prime rate of each tracked gap.
func writeOscillationSeries(w *csv.Writer, stats *Statistics) error {
	header := []string{"bin_start", "bin_end", "prime_count_p", "prime_count_s", "ratio_s_p"}
	for _, g := range stats.TargetGaps {
		header = append(header, fmt.Sprintf("gap_%d_rate", g))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, b := range stats.Bins {
		if b.PrimesP == 0 {
			continue
		}
		row := []string{
			fmtUint(b.Start), fmtUint(b.End), fmtUint(b.PrimesP), fmtUint(b.PrimesS),
			fmtFloat(float64(b.PrimesS) / float64(b.PrimesP)),
		}
		for _, g := range stats.TargetGaps {
			row = append(row, fmtFloat(b.Gaps[g].Rate()))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
