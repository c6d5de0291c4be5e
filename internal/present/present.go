// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package present renders generated terms for the terminal: a text table
// with thousands separators, the plain sequence array, or JSON.
package present

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pdiddy/prime-shields/pkg/types"
)

// Grouped formats v with comma thousands separators ("1,616,614").
func Grouped(v *big.Int) string {
	if v == nil {
		return "0"
	}
	// BigComma divides its argument in place.
	return humanize.BigComma(new(big.Int).Set(v))
}

// WriteTable writes one line per term:
//
//	Shield 4 (P-max: 11): 1,924
func WriteTable(w io.Writer, terms []types.Term) error {
	if len(terms) == 0 {
		_, err := fmt.Fprintln(w, "No terms requested.")
		return err
	}
	for _, t := range terms {
		if _, err := fmt.Fprintf(w, "Shield %d (P-max: %d): %s\n", t.Index, t.PMax, Grouped(t.Value)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSequence writes the raw values as "Sequence Array: [4, 4, 34]".
func WriteSequence(w io.Writer, terms []types.Term) error {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.Value.String()
	}
	_, err := fmt.Fprintf(w, "Sequence Array: [%s]\n", strings.Join(parts, ", "))
	return err
}

// JSONTerm is the JSON shape of one term. Value is a decimal string so that
// values beyond 2^53 survive JSON consumers.
type JSONTerm struct {
	Index   int    `json:"index"`
	PMax    uint64 `json:"pmax"`
	Value   string `json:"value"`
	Grouped string `json:"grouped"`
}

// ToJSON converts terms to their JSON shape.
func ToJSON(terms []types.Term) []JSONTerm {
	out := make([]JSONTerm, len(terms))
	for i, t := range terms {
		out[i] = JSONTerm{
			Index:   t.Index,
			PMax:    t.PMax,
			Value:   t.Value.String(),
			Grouped: Grouped(t.Value),
		}
	}
	return out
}

// WriteJSON writes terms as an indented JSON array.
func WriteJSON(w io.Writer, terms []types.Term) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToJSON(terms))
}
