// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math/big"
)

// FirstShieldedPrime is the prime every Shield General sequence starts from.
const FirstShieldedPrime uint64 = 3

// SeedGeneral is the first Shield General: the smallest even integer that is
// 1 mod 3.
const SeedGeneral int64 = 4

// Term is one accepted Shield General.
type Term struct {
	// Index is the 1-based position of the term in its sequence.
	Index int `json:"index" yaml:"index"`

	// Value is the term itself. Terms grow with the primorial, so values
	// are arbitrary precision.
	Value *big.Int `json:"value" yaml:"value"`

	// PMax is the largest prime this term shields against.
	PMax uint64 `json:"pmax" yaml:"pmax"`
}

// String renders the term as "index:value@pmax".
func (t Term) String() string {
	return fmt.Sprintf("%d:%s@%d", t.Index, t.Value, t.PMax)
}

// Parity is the congruence every candidate must satisfy before any prime is
// considered: value mod Mod == Rem.
type Parity struct {
	Mod uint64 `json:"mod" yaml:"mod" mapstructure:"mod"`
	Rem uint64 `json:"rem" yaml:"rem" mapstructure:"rem"`
}

// EvenParity is the parity constraint of the Shield General sequence.
var EvenParity = Parity{Mod: 2, Rem: 0}

// ShieldMode selects which residues of a newly shielded prime p the ratchet
// search accepts.
type ShieldMode string

const (
	// ModeSelection accepts only p-1 ("selection shields").
	ModeSelection ShieldMode = "selection"

	// ModeNatural accepts only 1 ("natural shields").
	ModeNatural ShieldMode = "natural"

	// ModeBoth accepts 1 or p-1.
	ModeBoth ShieldMode = "both"
)

// DefaultShieldMode is the mode that produces 4, 4, 34, 1924, 25024, 85084.
const DefaultShieldMode = ModeSelection

// ParseShieldMode converts a flag or config value into a ShieldMode. The
// empty string yields DefaultShieldMode.
func ParseShieldMode(s string) (ShieldMode, error) {
	switch ShieldMode(s) {
	case "":
		return DefaultShieldMode, nil
	case ModeSelection, ModeNatural, ModeBoth:
		return ShieldMode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown shield mode %q (want selection, natural or both)", ErrInvalidConfig, s)
	}
}

// Accepts reports whether residue rem of a candidate modulo prime p is a
// shield under this mode.
func (m ShieldMode) Accepts(rem, p uint64) bool {
	switch m {
	case ModeNatural:
		return rem == 1
	case ModeBoth:
		return rem == 1 || rem == p-1
	default:
		return rem == p-1
	}
}
