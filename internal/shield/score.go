// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shield

import (
	"strconv"
	"strings"
)

// SmallPrimes are the odd primes below 100 a value is scored against.
var SmallPrimes = []uint64{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97,
}

// Info is the shielding score of a value g: the small primes q for which
// S = 2p + g - 1 can never be divisible by q when p is a prime above q.
type Info struct {
	// Score is len(Primes).
	Score int `json:"score" yaml:"score"`

	// Primes lists the shielded primes in increasing order.
	Primes []uint64 `json:"primes" yaml:"primes"`

	// Boost is the heuristic density factor: 3/2 for the prime 3 and
	// q/(q-1) for each other shielded q, multiplied together.
	Boost float64 `json:"boost" yaml:"boost"`
}

// Score computes the shielding info of g against SmallPrimes.
//
// 3 is shielded whenever g mod 3 != 0: a gap of 2 mod 3 forces p = 2 mod 3,
// so S is 2 mod 3 as well. Each q >= 5 is shielded when g mod q == 1, since
// then S = 2p (mod q) and 2p is never 0 mod q.
func Score(g uint64) Info {
	info := Info{Primes: []uint64{}, Boost: 1.0}
	if g%3 != 0 {
		info.Primes = append(info.Primes, 3)
		info.Boost *= 3.0 / 2.0
	}
	for _, q := range SmallPrimes[1:] {
		if g%q == 1 {
			info.Primes = append(info.Primes, q)
			info.Boost *= float64(q) / float64(q-1)
		}
	}
	info.Score = len(info.Primes)
	return info
}

// PrimeList renders Primes as a comma-separated list ("3,11").
func (i Info) PrimeList() string {
	parts := make([]string, len(i.Primes))
	for j, p := range i.Primes {
		parts[j] = strconv.FormatUint(p, 10)
	}
	return strings.Join(parts, ",")
}
