// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		gap    uint64
		score  int
		primes string
		boost  float64
	}{
		{2, 1, "3", 1.5},
		{4, 1, "3", 1.5},
		{6, 1, "5", 1.25},
		{34, 2, "3,11", 1.5 * 1.1},
		{56, 3, "3,5,11", 1.5 * 1.25 * 1.1},
		{30, 1, "29", 29.0 / 28.0},
		{9, 0, "", 1.0},
	}

	for _, tt := range tests {
		info := Score(tt.gap)
		assert.Equal(t, tt.score, info.Score, "gap %d score", tt.gap)
		assert.Equal(t, tt.primes, info.PrimeList(), "gap %d primes", tt.gap)
		assert.InDelta(t, tt.boost, info.Boost, 1e-12, "gap %d boost", tt.gap)
	}
}
