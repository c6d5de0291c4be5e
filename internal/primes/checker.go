// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package primes

import "sync"

// checkerCacheSize is the number of sieved segments a Checker keeps.
const checkerCacheSize = 4

// Checker answers primality queries up to a fixed limit. Values up to
// sqrt(limit) come from a table; larger values sieve the aligned segment
// that contains them and keep the last few segments in a FIFO cache.
// A Checker is safe for concurrent use.
type Checker struct {
	limit     uint64
	sqrtLimit uint64
	small     []bool
	base      []uint64
	segBits   uint64

	mu    sync.Mutex
	cache []*segment
}

// NewChecker returns a Checker for values <= limit. segmentBytes sets the
// segment size (0 = DefaultSegmentBytes).
func NewChecker(limit uint64, segmentBytes int) *Checker {
	if segmentBytes <= 0 {
		segmentBytes = DefaultSegmentBytes
	}
	sqrtLimit := isqrt(limit)
	small, base := smallSieve(sqrtLimit)
	return &Checker{
		limit:     limit,
		sqrtLimit: sqrtLimit,
		small:     small,
		base:      base,
		segBits:   uint64(segmentBytes) * 8,
		cache:     make([]*segment, 0, checkerCacheSize),
	}
}

// Fork returns a Checker that shares c's base tables but has its own
// segment cache, for a worker that queries a different range.
func (c *Checker) Fork() *Checker {
	return &Checker{
		limit:     c.limit,
		sqrtLimit: c.sqrtLimit,
		small:     c.small,
		base:      c.base,
		segBits:   c.segBits,
		cache:     make([]*segment, 0, checkerCacheSize),
	}
}

// Limit returns the largest value the checker can answer for.
func (c *Checker) Limit() uint64 { return c.limit }

// IsPrime reports whether n is prime. Values above the limit report false.
func (c *Checker) IsPrime(n uint64) bool {
	if n > c.limit {
		return false
	}
	if n <= c.sqrtLimit {
		return c.small[n]
	}
	return !c.segmentFor(n).composite(n)
}

func (c *Checker) segmentFor(n uint64) *segment {
	start := (n / c.segBits) * c.segBits

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.cache {
		if s.start == start {
			return s
		}
	}

	s := sieveSegment(start, start+c.segBits, c.base)
	if len(c.cache) >= checkerCacheSize {
		c.cache = c.cache[1:]
	}
	c.cache = append(c.cache, s)
	return s
}
