// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/prime-shields/internal/shield"
	"github.com/pdiddy/prime-shields/pkg/types"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate VALUE",
		Short: "Check whether a value is a Shield General for a set of primes",
		Long: `Validate checks VALUE against the parity constraint (even by default) and
against each prime in --primes: 3 must not divide VALUE, and every prime p >= 5
must leave a remainder of 1 or p-1. It prints the shielding score of VALUE over
the primes 3..97 and exits non-zero when a check fails.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runValidate,
	}

	cmd.Flags().UintSlice("primes", []uint{3}, "shielded primes to check, e.g. 3,5,7,11")
	cmd.Flags().Uint64("parity-mod", types.EvenParity.Mod, "parity modulus")
	cmd.Flags().Uint64("parity-rem", types.EvenParity.Rem, "required remainder modulo --parity-mod")
	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	value, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		return fmt.Errorf("VALUE must be an integer, got %q", args[0])
	}

	list, _ := cmd.Flags().GetUintSlice("primes")
	shielded := make([]uint64, len(list))
	for i, p := range list {
		shielded[i] = uint64(p)
	}
	parity := types.Parity{}
	parity.Mod, _ = cmd.Flags().GetUint64("parity-mod")
	parity.Rem, _ = cmd.Flags().GetUint64("parity-rem")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Value: %s\n", value)
	fmt.Fprintf(out, "Parity: mod %d = %d\n", parity.Mod, parity.Rem)
	fmt.Fprintf(out, "Primes: %s\n", joinUints(shielded))

	if value.IsUint64() {
		info := shield.Score(value.Uint64())
		fmt.Fprintf(out, "Shield score: %d (primes: %s, boost: %.4f)\n", info.Score, info.PrimeList(), info.Boost)
	}

	if shield.Validate(a.log, value, shielded, parity) {
		fmt.Fprintln(out, "Valid: yes")
		return nil
	}
	fmt.Fprintln(out, "Valid: no")
	return shield.Check(value, shielded, parity)
}

func joinUints(vs []uint64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
