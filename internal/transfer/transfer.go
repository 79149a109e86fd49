// Package transfer counts physically cuttable keys, i.e. keys constrained
// only by the MACS tolerance, via transfer-matrix exponentiation.
//
// Let A be the depths x depths adjacency matrix with A[i][j] = 1 when
// |i - j| <= macs. Entry (i, j) of A^(k-1) is the number of MACS-valid
// keys of length k starting at depth i and ending at depth j, so the
// total for length n is the sum over all entries of A^(n-1). Entries are
// big integers since the totals grow geometrically.
package transfer

import (
	"fmt"
	"math/big"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

// matrix is a square big-integer matrix in row-major order.
type matrix struct {
	n     int
	cells []*big.Int
}

func newMatrix(n int) matrix {
	cells := make([]*big.Int, n*n)
	for i := range cells {
		cells[i] = new(big.Int)
	}

	return matrix{n: n, cells: cells}
}

func (m matrix) at(i, j int) *big.Int {
	return m.cells[i*m.n+j]
}

// mul returns m * other.
func (m matrix) mul(other matrix) matrix {
	out := newMatrix(m.n)
	tmp := new(big.Int)

	for i := range m.n {
		for j := range m.n {
			acc := out.at(i, j)
			for k := range m.n {
				acc.Add(acc, tmp.Mul(m.at(i, k), other.at(k, j)))
			}
		}
	}

	return out
}

// adjacency builds the MACS adjacency matrix for the spec.
func adjacency(spec bitting.Spec) matrix {
	adj := newMatrix(spec.Depths)

	for i := range spec.Depths {
		for j := range spec.Depths {
			if spec.WithinMACS(uint8(i), uint8(j)) {
				adj.at(i, j).SetInt64(1)
			}
		}
	}

	return adj
}

// CountPhysical returns the exact number of MACS-valid keys for the spec,
// ignoring the frequency and no-triple rules.
func CountPhysical(spec bitting.Spec) (*big.Int, error) {
	err := spec.Validate()
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	adj := adjacency(spec)

	power := adj
	for range spec.Positions - 2 {
		power = power.mul(adj)
	}

	total := new(big.Int)

	if spec.Positions == 1 {
		total.SetInt64(int64(spec.Depths))

		return total, nil
	}

	for _, cell := range power.cells {
		total.Add(total, cell)
	}

	return total, nil
}
