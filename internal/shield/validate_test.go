// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package shield

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/prime-shields/pkg/types"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		value  int64
		primes []uint64
		want   bool
	}{
		{"seed against 3", 4, []uint64{3}, true},
		{"odd value fails parity", 9, []uint64{3}, false},
		{"multiple of 3 fails", 6, []uint64{3, 5}, false},
		{"4 shields 5 with p-1", 4, []uint64{3, 5}, true},
		{"34 shields 3 through 7", 34, []uint64{3, 5, 7}, true},
		{"34 shields 11 with 1", 34, []uint64{3, 5, 7, 11}, true},
		{"34 fails 13", 34, []uint64{3, 5, 7, 11, 13}, false},
		{"1924 fails 13 (remainder 0)", 1924, []uint64{3, 5, 7, 11, 13}, false},
		{"85084 shields through 17", 85084, []uint64{3, 5, 7, 11, 13, 17}, true},
		{"2 mod 3 passes non-zero rule", 2, []uint64{3}, true},
		{"prime 2 in set is ignored", 4, []uint64{2, 3}, true},
		{"empty set checks only parity", 10, nil, true},
		{"negative even value", -2, []uint64{3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(nil, big.NewInt(tt.value), tt.primes, types.EvenParity)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCustomParity(t *testing.T) {
	// Odd parity: value mod 2 == 1.
	odd := types.Parity{Mod: 2, Rem: 1}
	assert.True(t, Validate(nil, big.NewInt(7), []uint64{3}, odd))
	assert.False(t, Validate(nil, big.NewInt(4), []uint64{3}, odd))

	assert.False(t, Validate(nil, big.NewInt(4), []uint64{3}, types.Parity{}), "zero modulus never validates")
}

func TestValidateLogsFirstFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	ok := Validate(log, big.NewInt(34), []uint64{3, 5, 7, 11, 13, 17}, types.EvenParity)
	require.False(t, ok)

	entries := logs.All()
	require.Len(t, entries, 1, "only the first failing check is logged")
	e := entries[0]
	assert.Equal(t, zapcore.ErrorLevel, e.Level)

	fields := e.ContextMap()
	assert.Equal(t, uint64(13), fields["prime"])
	assert.Equal(t, "1 or 12", fields["expected"])
	assert.Equal(t, uint64(8), fields["got"])
}

func TestValidateSilentOnSuccess(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	require.True(t, Validate(zap.New(core), big.NewInt(4), []uint64{3, 5}, types.EvenParity))
	assert.Zero(t, logs.Len())
}

func TestCheckViolationDetails(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		primes   []uint64
		rule     Rule
		prime    uint64
		expected string
		got      uint64
	}{
		{"parity", 9, []uint64{3}, RuleParity, 0, "0", 1},
		{"non-zero mod 3", 6, []uint64{3, 5}, RuleNonZero, 3, "non-zero", 0},
		{"plus minus one", 1924, []uint64{3, 5, 7, 11, 13}, RulePlusMinus, 13, "1 or 12", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(big.NewInt(tt.value), tt.primes, types.EvenParity)
			require.Error(t, err)

			var v *ViolationError
			require.True(t, errors.As(err, &v))
			assert.Equal(t, tt.rule, v.Rule)
			assert.Equal(t, tt.prime, v.Prime)
			assert.Equal(t, tt.expected, v.Expected)
			assert.Equal(t, tt.got, v.Got)
			assert.Equal(t, tt.value, v.Value.Int64())
		})
	}
}

func TestViolationErrorMessage(t *testing.T) {
	err := Check(big.NewInt(9), []uint64{3}, types.EvenParity)
	require.Error(t, err)
	assert.Equal(t, "parity check failed for 9: expected rem 0 for mod 2, got 1", err.Error())

	err = Check(big.NewInt(34), []uint64{3, 5, 7, 11, 13}, types.EvenParity)
	require.Error(t, err)
	assert.Equal(t, "shield check failed for 34 with prime 13: expected rem 1 or 12, got 8", err.Error())
}
