// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared by the generator, the prime oracle, the archive and
// the CLI. Callers match them with errors.Is.
var (
	// ErrInvariantViolation means an accepted or seed term failed full
	// validation. The sequence is not trustworthy past that point.
	ErrInvariantViolation = errors.New("shield invariant violated")

	// ErrPrimeSourceUnavailable means the prime oracle is missing or gives
	// wrong answers. It is reported before any term is attempted.
	ErrPrimeSourceUnavailable = errors.New("prime source unavailable")

	// ErrRunNotFound is returned by the archive for an unknown run ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidConfig marks a configuration value that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)
