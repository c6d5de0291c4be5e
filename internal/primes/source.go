// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package primes

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pdiddy/prime-shields/pkg/types"
)

// Source answers next-prime queries for the ratchet generator.
type Source interface {
	// NextPrimeAfter returns the smallest prime strictly greater than p.
	NextPrimeAfter(p uint64) (uint64, error)
}

const (
	defaultSieveLimit = 1 << 10
	maxSieveLimit     = 1 << 32
)

// Sieve is a Source backed by a table of every prime up to a limit. The
// table is re-sieved at twice the limit whenever a query runs past it.
// A Sieve is safe for concurrent use.
type Sieve struct {
	mu     sync.Mutex
	limit  uint64
	primes []uint64
}

// NewSieve returns a Sieve whose first table covers primes <= limit
// (0 = 1024).
func NewSieve(limit uint64) *Sieve {
	if limit < 2 {
		limit = defaultSieveLimit
	}
	return &Sieve{limit: limit, primes: Collect(limit)}
}

// NextPrimeAfter implements Source.
func (s *Sieve) NextPrimeAfter(p uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		i := sort.Search(len(s.primes), func(i int) bool { return s.primes[i] > p })
		if i < len(s.primes) {
			return s.primes[i], nil
		}
		if s.limit >= maxSieveLimit {
			return 0, fmt.Errorf("%w: no prime after %d below sieve cap %d", types.ErrPrimeSourceUnavailable, p, uint64(maxSieveLimit))
		}
		s.limit = min(s.limit*2, maxSieveLimit)
		s.primes = Collect(s.limit)
	}
}

// Limit returns the current table bound.
func (s *Sieve) Limit() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

// Probe checks that src is present and answers the first next-prime queries
// correctly. It is called before any term is generated.
func Probe(src Source) error {
	if src == nil {
		return fmt.Errorf("%w: no prime source configured", types.ErrPrimeSourceUnavailable)
	}
	for _, c := range []struct{ after, want uint64 }{{2, 3}, {3, 5}, {7, 11}} {
		got, err := src.NextPrimeAfter(c.after)
		if err != nil {
			return fmt.Errorf("%w: %v", types.ErrPrimeSourceUnavailable, err)
		}
		if got != c.want {
			return fmt.Errorf("%w: next prime after %d reported as %d, want %d",
				types.ErrPrimeSourceUnavailable, c.after, got, c.want)
		}
	}
	return nil
}
