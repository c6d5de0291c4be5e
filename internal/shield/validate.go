// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shield decides whether a value shields a set of primes and scores
// how many small primes a value shields against.
package shield

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/pdiddy/prime-shields/pkg/types"
)

// Rule names the check a value failed.
type Rule string

const (
	RuleParity    Rule = "parity"
	RuleNonZero   Rule = "nonzero"
	RulePlusMinus Rule = "plus-minus-one"
)

// ViolationError describes the first check a candidate failed.
type ViolationError struct {
	Rule Rule

	// Value is the candidate that failed.
	Value *big.Int

	// Prime is the shielded prime whose check failed (0 for parity).
	Prime uint64

	// Mod is the modulus of the failed check.
	Mod uint64

	// Expected describes the accepted remainders, e.g. "1 or 6".
	Expected string

	// Got is the observed remainder.
	Got uint64
}

func (e *ViolationError) Error() string {
	if e.Rule == RuleParity {
		return fmt.Sprintf("parity check failed for %s: expected rem %s for mod %d, got %d",
			e.Value, e.Expected, e.Mod, e.Got)
	}
	return fmt.Sprintf("shield check failed for %s with prime %d: expected rem %s, got %d",
		e.Value, e.Prime, e.Expected, e.Got)
}

// Check runs every check against candidate and returns a *ViolationError for
// the first one that fails, or nil. primes is the ordered shielded set
// starting at 3; entries below 3 are ignored.
func Check(candidate *big.Int, primes []uint64, parity types.Parity) error {
	if parity.Mod == 0 {
		return &ViolationError{Rule: RuleParity, Value: candidate, Expected: fmt.Sprint(parity.Rem)}
	}
	if got := mod(candidate, parity.Mod); got != parity.Rem {
		return &ViolationError{
			Rule:     RuleParity,
			Value:    candidate,
			Mod:      parity.Mod,
			Expected: fmt.Sprint(parity.Rem),
			Got:      got,
		}
	}

	for _, p := range primes {
		switch {
		case p == 3:
			if got := mod(candidate, 3); got == 0 {
				return &ViolationError{
					Rule:     RuleNonZero,
					Value:    candidate,
					Prime:    3,
					Mod:      3,
					Expected: "non-zero",
					Got:      0,
				}
			}
		case p >= 5:
			if got := mod(candidate, p); got != 1 && got != p-1 {
				return &ViolationError{
					Rule:     RulePlusMinus,
					Value:    candidate,
					Prime:    p,
					Mod:      p,
					Expected: fmt.Sprintf("1 or %d", p-1),
					Got:      got,
				}
			}
		}
	}
	return nil
}

// Validate reports whether candidate passes every check. The first failure
// is logged at ERROR on log; a nil log discards it.
func Validate(log *zap.Logger, candidate *big.Int, primes []uint64, parity types.Parity) bool {
	err := Check(candidate, primes, parity)
	if err == nil {
		return true
	}
	if log == nil {
		return false
	}
	v := err.(*ViolationError)
	log.Error("shield validation failed",
		zap.String("rule", string(v.Rule)),
		zap.Stringer("value", v.Value),
		zap.Uint64("prime", v.Prime),
		zap.Uint64("mod", v.Mod),
		zap.String("expected", v.Expected),
		zap.Uint64("got", v.Got),
	)
	return false
}

// mod returns the Euclidean remainder of x modulo m as a uint64.
func mod(x *big.Int, m uint64) uint64 {
	r := new(big.Int).Mod(x, new(big.Int).SetUint64(m))
	return r.Uint64()
}
