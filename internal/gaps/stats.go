// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gaps

import "sort"

// GapCount tallies one gap size: how often it occurs between consecutive
// primes and how often the sum S = p_prev + p - 1 is prime for it.
type GapCount struct {
	Occurrences uint64
	Successes   uint64
}

// Rate returns Successes/Occurrences, or 0 for an unseen gap.
func (c GapCount) Rate() float64 {
	if c.Occurrences == 0 {
		return 0
	}
	return float64(c.Successes) / float64(c.Occurrences)
}

// Bin covers [Start, End] of the analysis range.
type Bin struct {
	Start   uint64
	End     uint64
	PrimesP uint64
	PrimesS uint64

	// Gaps holds counts for the tracked gap sizes only.
	Gaps map[uint64]GapCount
}

// Statistics accumulates the analysis of consecutive primes up to N over
// the range [0, 2N], which bounds every S.
type Statistics struct {
	TotalPrimes  uint64
	TotalSPrimes uint64

	// Spectrum holds counts for every gap size seen.
	Spectrum map[uint64]GapCount

	Bins       []Bin
	TargetGaps []uint64

	binSize  uint64
	rangeMax uint64
}

// NewStatistics returns empty statistics for primes up to maxN split into
// bins bins. targetGaps is copied and sorted.
func NewStatistics(maxN uint64, bins int, targetGaps []uint64) *Statistics {
	rangeMax := maxN * 2
	binSize := (rangeMax + uint64(bins) - 1) / uint64(bins)
	if binSize == 0 {
		binSize = 1
	}

	gaps := append([]uint64(nil), targetGaps...)
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })

	s := &Statistics{
		Spectrum:   make(map[uint64]GapCount),
		Bins:       make([]Bin, bins),
		TargetGaps: gaps,
		binSize:    binSize,
		rangeMax:   rangeMax,
	}
	for i := range s.Bins {
		start := uint64(i) * binSize
		s.Bins[i] = Bin{
			Start: start,
			End:   min(start+binSize-1, rangeMax),
			Gaps:  make(map[uint64]GapCount, len(gaps)),
		}
		for _, g := range gaps {
			s.Bins[i].Gaps[g] = GapCount{}
		}
	}
	return s
}

// BinIndex returns the bin holding n. Values past the last bin fall into it;
// values above the analysis range have no bin.
func (s *Statistics) BinIndex(n uint64) (int, bool) {
	if n > s.rangeMax || len(s.Bins) == 0 {
		return 0, false
	}
	i := int(n / s.binSize)
	if i >= len(s.Bins) {
		i = len(s.Bins) - 1
	}
	return i, true
}

func (s *Statistics) isTarget(gap uint64) bool {
	i := sort.Search(len(s.TargetGaps), func(i int) bool { return s.TargetGaps[i] >= gap })
	return i < len(s.TargetGaps) && s.TargetGaps[i] == gap
}

// countPrime records a prime that has no predecessor (2).
func (s *Statistics) countPrime(p uint64) {
	s.TotalPrimes++
	if i, ok := s.BinIndex(p); ok {
		s.Bins[i].PrimesP++
	}
}

// record adds the consecutive pair (prev, p); sPrime reports whether
// prev + p - 1 is prime.
func (s *Statistics) record(prev, p uint64, sPrime bool) {
	s.TotalPrimes++
	i, ok := s.BinIndex(p)
	if !ok {
		return
	}
	bin := &s.Bins[i]
	bin.PrimesP++

	gap := p - prev
	target := s.isTarget(gap)

	c := s.Spectrum[gap]
	c.Occurrences++
	var tc GapCount
	if target {
		tc = bin.Gaps[gap]
		tc.Occurrences++
	}

	if sPrime {
		s.TotalSPrimes++
		bin.PrimesS++
		c.Successes++
		if target {
			tc.Successes++
		}
	}

	s.Spectrum[gap] = c
	if target {
		bin.Gaps[gap] = tc
	}
}

// Merge adds the counts of o into s. Both must share the same bin layout.
func (s *Statistics) Merge(o *Statistics) {
	s.TotalPrimes += o.TotalPrimes
	s.TotalSPrimes += o.TotalSPrimes
	for g, c := range o.Spectrum {
		m := s.Spectrum[g]
		m.Occurrences += c.Occurrences
		m.Successes += c.Successes
		s.Spectrum[g] = m
	}
	for i := range s.Bins {
		b, ob := &s.Bins[i], &o.Bins[i]
		b.PrimesP += ob.PrimesP
		b.PrimesS += ob.PrimesS
		for g, c := range ob.Gaps {
			m := b.Gaps[g]
			m.Occurrences += c.Occurrences
			m.Successes += c.Successes
			b.Gaps[g] = m
		}
	}
}

// SortedGaps returns the gap sizes of the spectrum in increasing order.
func (s *Statistics) SortedGaps() []uint64 {
	gaps := make([]uint64, 0, len(s.Spectrum))
	for g := range s.Spectrum {
		gaps = append(gaps, g)
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i] < gaps[j] })
	return gaps
}

// Ratio returns TotalSPrimes/TotalPrimes, or 0 when no primes were counted.
func (s *Statistics) Ratio() float64 {
	if s.TotalPrimes == 0 {
		return 0
	}
	return float64(s.TotalSPrimes) / float64(s.TotalPrimes)
}
