// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package primes enumerates primes with a segmented sieve of Eratosthenes.
// It provides the next-prime oracle consumed by the ratchet generator, a
// streaming iterator, and a cached primality checker for the gap analyzer.
package primes

import (
	"math"
	"math/bits"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunkWords is the number of 64-bit words one goroutine marks (32 KB).
const chunkWords = 4096

// DefaultSegmentBytes is the segment size used when callers pass 0.
const DefaultSegmentBytes = 128 * 1024

// isqrt returns floor(sqrt(n)).
func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// smallSieve returns a primality table for 0..limit and the primes in it.
func smallSieve(limit uint64) ([]bool, []uint64) {
	isPrime := make([]bool, limit+1)
	for i := uint64(2); i <= limit; i++ {
		isPrime[i] = true
	}
	for i := uint64(2); i*i <= limit; i++ {
		if !isPrime[i] {
			continue
		}
		for j := i * i; j <= limit; j += i {
			isPrime[j] = false
		}
	}
	var ps []uint64
	for i, ok := range isPrime {
		if ok {
			ps = append(ps, uint64(i))
		}
	}
	return isPrime, ps
}

// segment is a bitmap over [start, start+n): a set bit marks a composite.
type segment struct {
	start uint64
	n     uint64
	words []uint64
}

func (s *segment) composite(v uint64) bool {
	i := v - s.start
	return s.words[i/64]&(1<<(i%64)) != 0
}

// nextPrime returns the first unmarked value at or after offset i, and the
// offset past it. ok is false when the segment is exhausted.
func (s *segment) nextPrime(i uint64) (uint64, uint64, bool) {
	for i < s.n {
		w := ^s.words[i/64] >> (i % 64)
		if w == 0 {
			i = (i/64 + 1) * 64
			continue
		}
		i += uint64(bits.TrailingZeros64(w))
		if i >= s.n {
			break
		}
		return s.start + i, i + 1, true
	}
	return 0, s.n, false
}

// sieveSegment marks the composites in [start, end) using base, which must
// hold every prime up to sqrt(end-1). Word chunks are marked concurrently;
// each goroutine owns a disjoint range of words.
func sieveSegment(start, end uint64, base []uint64) *segment {
	n := end - start
	seg := &segment{start: start, n: n, words: make([]uint64, (n+63)/64)}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for first := 0; first < len(seg.words); first += chunkWords {
		first := first
		last := min(first+chunkWords, len(seg.words))
		g.Go(func() error {
			markChunk(seg.words[first:last], start+uint64(first)*64, base)
			return nil
		})
	}
	_ = g.Wait()

	// 0 and 1 are not prime. Bits past n are padding and never read.
	for v := start; v < 2 && v < end; v++ {
		i := v - start
		seg.words[i/64] |= 1 << (i % 64)
	}
	return seg
}

// markChunk marks multiples of each base prime inside chunk, whose bit 0
// corresponds to the value chunkStart.
func markChunk(chunk []uint64, chunkStart uint64, base []uint64) {
	chunkBits := uint64(len(chunk)) * 64
	for _, p := range base {
		sq := p * p
		var off uint64
		if chunkStart < sq {
			off = sq - chunkStart
		} else if r := chunkStart % p; r != 0 {
			off = p - r
		}
		for i := off; i < chunkBits; i += p {
			chunk[i/64] |= 1 << (i % 64)
		}
	}
}

// Iterator yields the primes up to a limit in increasing order, sieving one
// segment at a time.
type Iterator struct {
	limit   uint64
	segBits uint64
	base    []uint64
	baseIdx int

	seg    *segment
	segOff uint64
	done   bool
}

// NewIterator returns an iterator over the primes <= limit. segmentBytes
// sets the sieve segment size (0 = DefaultSegmentBytes).
func NewIterator(limit uint64, segmentBytes int) *Iterator {
	if segmentBytes <= 0 {
		segmentBytes = DefaultSegmentBytes
	}
	_, base := smallSieve(isqrt(limit))
	return &Iterator{
		limit:   limit,
		segBits: uint64(segmentBytes) * 8,
		base:    base,
	}
}

// Next returns the next prime, or false once the limit is passed.
func (it *Iterator) Next() (uint64, bool) {
	if it.done {
		return 0, false
	}
	if it.baseIdx < len(it.base) {
		p := it.base[it.baseIdx]
		it.baseIdx++
		return p, true
	}

	for {
		if it.seg == nil {
			start := isqrt(it.limit) + 1
			if start > it.limit {
				it.done = true
				return 0, false
			}
			it.seg = sieveSegment(start, min(start+it.segBits, it.limit+1), it.base)
			it.segOff = 0
		}

		if p, next, ok := it.seg.nextPrime(it.segOff); ok {
			it.segOff = next
			return p, true
		}

		start := it.seg.start + it.seg.n
		if start > it.limit {
			it.done = true
			return 0, false
		}
		it.seg = sieveSegment(start, min(start+it.segBits, it.limit+1), it.base)
		it.segOff = 0
	}
}

// Collect returns every prime <= limit.
func Collect(limit uint64) []uint64 {
	it := NewIterator(limit, 0)
	var ps []uint64
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		ps = append(ps, p)
	}
	return ps
}
