// Package pathcount counts legal key bittings without enumerating them,
// by dynamic programming over search states.
//
// A state is the pair (depth frequency table, last two cuts). Appending a
// cut maps one state to another, and every legal key of length n is a
// distinct n-step path from the empty state. Tracking how many paths
// reach each state therefore counts keys while the state space stays
// small. Path counts are big integers; they overflow 64 bits long before
// the state space becomes a problem.
package pathcount

import (
	"fmt"
	"math/big"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

// noCut marks an absent trailing cut in states shorter than two positions.
const noCut = -1

// state identifies one equivalence class of key prefixes: prefixes with
// the same frequency table and the same last two cuts have identical sets
// of legal completions.
type state struct {
	freq bitting.FrequencyTable
	a, b int8 // Last two cuts, a older than b; noCut when absent.
}

// Count returns the exact number of legal keys for the spec.
func Count(spec bitting.Spec) (*big.Int, error) {
	err := spec.Validate()
	if err != nil {
		return nil, fmt.Errorf("pathcount: %w", err)
	}

	paths := map[state]*big.Int{
		{a: noCut, b: noCut}: big.NewInt(1),
	}

	for range spec.Positions {
		next := make(map[state]*big.Int, len(paths))

		for st, count := range paths {
			for d := range spec.Depths {
				cut := uint8(d)

				if st.a != noCut && st.a == st.b && int(st.b) == d {
					continue
				}

				if st.b != noCut && !spec.WithinMACS(uint8(st.b), cut) {
					continue
				}

				if !spec.CanPlace(&st.freq, cut) {
					continue
				}

				ns := state{freq: st.freq, a: st.b, b: int8(d)}
				ns.freq.Add(cut)

				acc, ok := next[ns]
				if !ok {
					acc = new(big.Int)
					next[ns] = acc
				}

				acc.Add(acc, count)
			}
		}

		paths = next
	}

	total := new(big.Int)
	for _, count := range paths {
		total.Add(total, count)
	}

	return total, nil
}
