// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gaps analyzes the sums of consecutive primes. For every pair of
// consecutive primes (p_prev, p) up to N it records the gap p - p_prev and
// whether S = p_prev + p - 1 is prime, binned over [0, 2N], and writes the
// gap spectrum with the shielding score of each gap.
package gaps

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/prime-shields/internal/primes"
	"github.com/pdiddy/prime-shields/pkg/types"
)

// batchSize is the number of primes handed to one worker.
const batchSize = 1 << 16

// Analyzer runs the consecutive-prime analysis for one configuration.
type Analyzer struct {
	cfg  types.AnalyzeConfig
	maxN uint64
	log  *zap.Logger
}

// New validates cfg and returns an Analyzer. A nil log discards progress.
func New(cfg types.AnalyzeConfig, log *zap.Logger) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		cfg:  cfg,
		maxN: uint64(math.Pow10(int(cfg.MaxExponent))),
		log:  log,
	}, nil
}

// MaxN returns 10^MaxExponent.
func (a *Analyzer) MaxN() uint64 { return a.maxN }

type batch struct {
	prev   uint64
	primes []uint64
}

// Run sieves the primes up to N and returns the merged statistics. Batches
// are processed concurrently; cancelling ctx stops the run.
func (a *Analyzer) Run(ctx context.Context) (*Statistics, error) {
	segBytes := a.cfg.SegmentSizeKB * 1024
	it := primes.NewIterator(a.maxN, segBytes)
	checker := primes.NewChecker(2*a.maxN, segBytes)

	stats := NewStatistics(a.maxN, a.cfg.Bins, a.cfg.Gaps)
	a.log.Info("starting gap analysis",
		zap.Uint64("max_n", a.maxN),
		zap.Int("bins", a.cfg.Bins),
		zap.Uint64s("gaps", stats.TargetGaps))

	prev, ok := it.Next()
	if !ok {
		return stats, nil
	}
	stats.countPrime(prev)

	workers := a.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu        sync.Mutex
		processed uint64
	)
	submit := func(b batch) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local := a.process(b, checker.Fork())

			mu.Lock()
			defer mu.Unlock()
			stats.Merge(local)
			processed += uint64(len(b.primes))
			a.log.Debug("batch merged",
				zap.Uint64("last_prime", b.primes[len(b.primes)-1]),
				zap.Uint64("processed", processed))
			return nil
		})
	}

	cur := batch{prev: prev, primes: make([]uint64, 0, batchSize)}
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		cur.primes = append(cur.primes, p)
		if len(cur.primes) == batchSize {
			if err := gctx.Err(); err != nil {
				break
			}
			submit(cur)
			cur = batch{prev: p, primes: make([]uint64, 0, batchSize)}
		}
	}
	if len(cur.primes) > 0 && gctx.Err() == nil {
		submit(cur)
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("gap analysis: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("gap analysis: %w", err)
	}

	a.log.Info("gap analysis complete",
		zap.Uint64("primes", stats.TotalPrimes),
		zap.Uint64("s_primes", stats.TotalSPrimes))
	return stats, nil
}

func (a *Analyzer) process(b batch, checker *primes.Checker) *Statistics {
	local := NewStatistics(a.maxN, a.cfg.Bins, a.cfg.Gaps)
	prev := b.prev
	for _, p := range b.primes {
		local.record(prev, p, checker.IsPrime(prev+p-1))
		prev = p
	}
	return local
}
