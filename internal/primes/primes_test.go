// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package primes

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/prime-shields/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- test helpers ---

func isPrimeTrial(n uint64) bool {
	if n < 2 {
		return false
	}
	for d := uint64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func primesTrial(limit uint64) []uint64 {
	var ps []uint64
	for n := uint64(2); n <= limit; n++ {
		if isPrimeTrial(n) {
			ps = append(ps, n)
		}
	}
	return ps
}

func collectWith(limit uint64, segmentBytes int) []uint64 {
	it := NewIterator(limit, segmentBytes)
	var ps []uint64
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		ps = append(ps, p)
	}
	return ps
}

// --- iterator ---

func TestIteratorMatchesTrialDivision(t *testing.T) {
	tests := []struct {
		name         string
		limit        uint64
		segmentBytes int
	}{
		{"limit 0", 0, 0},
		{"limit 1", 1, 0},
		{"limit 2", 2, 0},
		{"limit 3", 3, 0},
		{"limit 4", 4, 0},
		{"limit 100", 100, 0},
		{"one word segments", 1000, 8},
		{"odd segment size", 5000, 24},
		{"default segments", 20000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectWith(tt.limit, tt.segmentBytes)
			want := primesTrial(tt.limit)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("primes <= %d mismatch (-want +got):\n%s", tt.limit, diff)
			}
		})
	}
}

func TestCollectCounts(t *testing.T) {
	assert.Len(t, Collect(1000), 168)
	assert.Len(t, Collect(100000), 9592)
}

func TestIteratorStaysDone(t *testing.T) {
	it := NewIterator(10, 0)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
	}
	_, ok := it.Next()
	assert.False(t, ok)
}

// --- checker ---

func TestCheckerMatchesTrialDivision(t *testing.T) {
	const limit = 20000
	c := NewChecker(limit, 16)
	for n := uint64(0); n <= limit; n++ {
		if got, want := c.IsPrime(n), isPrimeTrial(n); got != want {
			t.Fatalf("IsPrime(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestCheckerAboveLimit(t *testing.T) {
	c := NewChecker(100, 0)
	assert.True(t, c.IsPrime(97))
	assert.False(t, c.IsPrime(101), "values above the limit are not reported prime")
	assert.Equal(t, uint64(100), c.Limit())
}

func TestCheckerCacheIsBounded(t *testing.T) {
	c := NewChecker(1<<16, 8)
	for n := uint64(300); n < 1<<16; n += 64 {
		c.IsPrime(n)
	}
	assert.LessOrEqual(t, len(c.cache), checkerCacheSize)
}

// --- source ---

func TestSieveNextPrimeAfter(t *testing.T) {
	s := NewSieve(16)
	tests := []struct{ after, want uint64 }{
		{0, 2}, {1, 2}, {2, 3}, {3, 5}, {5, 7}, {13, 17}, {16, 17}, {89, 97}, {1000, 1009},
	}
	for _, tt := range tests {
		got, err := s.NextPrimeAfter(tt.after)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "next prime after %d", tt.after)
	}
	assert.GreaterOrEqual(t, s.Limit(), uint64(1009), "table grows past queries")
}

func TestSieveWalksPrimesInOrder(t *testing.T) {
	s := NewSieve(0)
	want := primesTrial(3000)[1:]
	p := uint64(2)
	for _, w := range want {
		next, err := s.NextPrimeAfter(p)
		require.NoError(t, err)
		require.Equal(t, w, next)
		p = next
	}
}

type fixedSource struct {
	next uint64
	err  error
}

func (f fixedSource) NextPrimeAfter(uint64) (uint64, error) { return f.next, f.err }

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		src     Source
		wantErr bool
	}{
		{"sieve", NewSieve(0), false},
		{"nil source", nil, true},
		{"failing source", fixedSource{err: errors.New("offline")}, true},
		{"wrong answers", fixedSource{next: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Probe(tt.src)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrPrimeSourceUnavailable)
		})
	}
}
