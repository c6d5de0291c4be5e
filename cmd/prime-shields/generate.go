// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/prime-shields/internal/archive"
	"github.com/pdiddy/prime-shields/internal/present"
	"github.com/pdiddy/prime-shields/internal/primes"
	"github.com/pdiddy/prime-shields/internal/ratchet"
	"github.com/pdiddy/prime-shields/pkg/types"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate N",
		Short: "Print the first N Shield Generals",
		Long: `Generate computes the first N Shield Generals. Term 1 is 4, which shields
the prime 3; every further term shields the next prime. Each term is validated
against all shielded primes before it is printed.

Example: generate 6 yields 4, 4, 34, 1924, 25024, 85084.

--mode selects which residue the search accepts for a new prime p:
selection (p-1, the default), natural (1) or both.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runGenerate,
	}

	cmd.Flags().String("mode", string(types.DefaultShieldMode), "accepted residues: selection, natural or both")
	cmd.Flags().Bool("json", false, "output terms as JSON")
	cmd.Flags().Bool("save", false, "store the sequence in the run archive")
	cmd.Flags().String("archive-dir", "archive", "directory holding the run archive")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("N must be an integer, got %q", args[0])
	}

	mode, err := types.ParseShieldMode(string(a.cfg.Generate.Mode))
	if err != nil {
		return err
	}

	src := primes.NewSieve(0)
	if err := primes.Probe(src); err != nil {
		return err
	}

	gen, err := ratchet.New(src, ratchet.WithMode(mode), ratchet.WithLogger(a.log))
	if err != nil {
		return err
	}

	a.log.Info("starting shield general search", zap.Int("terms", n), zap.String("mode", string(mode)))
	terms, err := gen.Generate(n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.cfg.Generate.JSON {
		if err := present.WriteJSON(out, terms); err != nil {
			return err
		}
	} else {
		if err := present.WriteTable(out, terms); err != nil {
			return err
		}
		if len(terms) > 0 {
			if err := present.WriteSequence(out, terms); err != nil {
				return err
			}
		}
	}

	if !a.cfg.Generate.Save {
		return nil
	}

	store, err := archive.NewStore(a.cfg.Archive, a.log)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Save(cmd.Context(), n, mode, terms)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s\n", run.ID)
	return nil
}
