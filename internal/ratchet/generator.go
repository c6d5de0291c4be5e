// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratchet generates the Shield General sequence.
//
// Term 1 is 4. Each further term shields the next prime p: starting from the
// previous term g, the generator tries g, g+c, g+2c, ... where c is the
// product of every prime shielded so far, and accepts the first even
// candidate whose residue mod p is a shield. Adding multiples of c leaves
// every earlier residue unchanged, so only p needs checking during the
// search. Every accepted term is still re-validated against the whole
// shielded set before it is kept.
package ratchet

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/prime-shields/internal/primes"
	"github.com/pdiddy/prime-shields/internal/shield"
	"github.com/pdiddy/prime-shields/pkg/types"
)

// Snapshot is a copy of the ratchet state taken right after a term is
// accepted.
type Snapshot struct {
	Term   types.Term
	Cycle  *big.Int
	Primes []uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithMode sets the shield mode used by the search (default selection).
func WithMode(m types.ShieldMode) Option {
	return func(g *Generator) { g.mode = m }
}

// WithLogger sets the logger for progress and validation failures.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithParity overrides the parity constraint (default even).
func WithParity(p types.Parity) Option {
	return func(g *Generator) { g.parity = p }
}

// WithTrace registers fn to receive a Snapshot after every accepted term,
// the seed included.
func WithTrace(fn func(Snapshot)) Option {
	return func(g *Generator) { g.trace = fn }
}

// Generator produces Shield General sequences. It holds configuration only;
// every Generate call builds its own ratchet state, so one Generator may be
// used from several goroutines if its Source allows it.
type Generator struct {
	src    primes.Source
	mode   types.ShieldMode
	parity types.Parity
	log    *zap.Logger
	trace  func(Snapshot)
}

// New returns a Generator that takes primes from src. A nil src is reported
// as types.ErrPrimeSourceUnavailable.
func New(src primes.Source, opts ...Option) (*Generator, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: generator needs a prime source", types.ErrPrimeSourceUnavailable)
	}
	g := &Generator{
		src:    src,
		mode:   types.DefaultShieldMode,
		parity: types.EvenParity,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if _, err := types.ParseShieldMode(string(g.mode)); err != nil {
		return nil, err
	}
	if g.parity.Mod == 0 {
		return nil, fmt.Errorf("%w: parity modulus must be positive", types.ErrInvalidConfig)
	}
	return g, nil
}

// state is the ratchet: the last accepted value, the product of the
// shielded primes, and the shielded primes themselves.
type state struct {
	general *big.Int
	cycle   *big.Int
	primes  []uint64
}

func (s *state) maxPrime() uint64 { return s.primes[len(s.primes)-1] }

// Generate returns the first n terms. n < 1 yields an empty slice. An
// error wrapping types.ErrInvariantViolation means an accepted term failed
// full validation; the terms accepted before it are not returned.
func (g *Generator) Generate(n int) ([]types.Term, error) {
	if n < 1 {
		return []types.Term{}, nil
	}

	st := &state{
		general: big.NewInt(types.SeedGeneral),
		cycle:   new(big.Int).SetUint64(types.FirstShieldedPrime),
		primes:  []uint64{types.FirstShieldedPrime},
	}

	if !shield.Validate(g.log, st.general, st.primes, g.parity) {
		return nil, fmt.Errorf("%w: initial general %s (term 1): %w",
			types.ErrInvariantViolation, st.general, shield.Check(st.general, st.primes, g.parity))
	}
	g.log.Info("validated shield general", zap.Int("term", 1), zap.Uint64("prime", types.FirstShieldedPrime))

	terms := make([]types.Term, 0, n)
	terms = append(terms, g.accept(st, 1))

	for len(terms) < n {
		term, err := g.step(st, len(terms)+1)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}

	return terms, nil
}

// step shields the next prime and returns term index.
func (g *Generator) step(st *state, index int) (types.Term, error) {
	pNew, err := g.src.NextPrimeAfter(st.maxPrime())
	if err != nil {
		return types.Term{}, fmt.Errorf("term %d: next prime after %d: %w", index, st.maxPrime(), err)
	}

	candidate, err := g.search(st, pNew)
	if err != nil {
		return types.Term{}, fmt.Errorf("term %d: %w", index, err)
	}

	st.general = candidate
	st.primes = append(st.primes, pNew)
	if !shield.Validate(g.log, st.general, st.primes, g.parity) {
		return types.Term{}, fmt.Errorf("%w: general %s (term %d) with prime %d: %w",
			types.ErrInvariantViolation, st.general, index, pNew, shield.Check(st.general, st.primes, g.parity))
	}
	g.log.Info("validated shield general", zap.Int("term", index), zap.Uint64("prime", pNew))

	st.cycle.Mul(st.cycle, new(big.Int).SetUint64(pNew))
	return g.accept(st, index), nil
}

// search returns the smallest general + k*cycle (k >= 0) whose residue mod
// p is a shield under the generator's mode and which keeps the parity.
// Both residues repeat with period p*parity.Mod in k, so a full period
// without a hit means no k exists. With even parity and an odd cycle a hit
// always comes before k = 2p.
func (g *Generator) search(st *state, p uint64) (*big.Int, error) {
	bp := new(big.Int).SetUint64(p)
	if new(big.Int).Mod(st.cycle, bp).Sign() == 0 {
		return nil, fmt.Errorf("%w: prime %d divides cycle %s", types.ErrInvariantViolation, p, st.cycle)
	}

	bmod := new(big.Int).SetUint64(g.parity.Mod)
	rem := new(big.Int)
	candidate := new(big.Int).Set(st.general)
	period := p * g.parity.Mod
	for k := uint64(0); k < period; k++ {
		hit := g.mode.Accepts(rem.Mod(candidate, bp).Uint64(), p)
		if hit && rem.Mod(candidate, bmod).Uint64() == g.parity.Rem {
			g.log.Debug("ratchet search hit",
				zap.Uint64("prime", p), zap.Uint64("k", k), zap.Stringer("candidate", candidate))
			return candidate, nil
		}
		candidate.Add(candidate, st.cycle)
	}
	return nil, fmt.Errorf("%w: no candidate from %s in steps of %s shields prime %d with parity %d mod %d",
		types.ErrInvariantViolation, st.general, st.cycle, p, g.parity.Rem, g.parity.Mod)
}

// accept records the current general as term index and reports it to the
// trace hook.
func (g *Generator) accept(st *state, index int) types.Term {
	term := types.Term{
		Index: index,
		Value: new(big.Int).Set(st.general),
		PMax:  st.maxPrime(),
	}
	if g.trace != nil {
		g.trace(Snapshot{
			Term:   types.Term{Index: term.Index, Value: new(big.Int).Set(term.Value), PMax: term.PMax},
			Cycle:  new(big.Int).Set(st.cycle),
			Primes: append([]uint64(nil), st.primes...),
		})
	}
	return term
}

// Values returns the term values in order.
func Values(terms []types.Term) []*big.Int {
	vs := make([]*big.Int, len(terms))
	for i, t := range terms {
		vs[i] = t.Value
	}
	return vs
}

// GenerateMany computes one independent sequence per entry of counts,
// concurrently. Results are in the order of counts. The first error cancels
// the sequences that have not started.
func (g *Generator) GenerateMany(ctx context.Context, counts []int) ([][]types.Term, error) {
	out := make([][]types.Term, len(counts))
	eg, ctx := errgroup.WithContext(ctx)
	for i, n := range counts {
		i, n := i, n
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			terms, err := g.Generate(n)
			if err != nil {
				return fmt.Errorf("sequence %d (%d terms): %w", i, n, err)
			}
			out[i] = terms
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
