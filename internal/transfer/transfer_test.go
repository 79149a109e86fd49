package transfer_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
	"github.com/Sumatoshi-tech/keyfang/internal/transfer"
)

// bruteForceMACSCount filters the full depth^positions space with the
// MACS rule only.
func bruteForceMACSCount(spec bitting.Spec) int64 {
	key := make(bitting.Key, spec.Positions)

	var count int64

	for {
		if spec.CheckMACS(key) {
			count++
		}

		pos := spec.Positions - 1
		for pos >= 0 {
			key[pos]++
			if int(key[pos]) < spec.Depths {
				break
			}

			key[pos] = 0
			pos--
		}

		if pos < 0 {
			return count
		}
	}
}

func TestSinglePosition(t *testing.T) {
	t.Parallel()

	total, err := transfer.CountPhysical(bitting.Spec{Positions: 1, Depths: 6, MACS: 4})
	require.NoError(t, err)

	assert.Zero(t, total.Cmp(big.NewInt(6)))
}

func TestPairCount(t *testing.T) {
	t.Parallel()

	// Depth pairs from {0,1,2} with |i-j| <= 1: seven of the nine.
	total, err := transfer.CountPhysical(bitting.Spec{Positions: 2, Depths: 3, MACS: 1})
	require.NoError(t, err)

	assert.Zero(t, total.Cmp(big.NewInt(7)))
}

func TestLooseMACSCountsEverything(t *testing.T) {
	t.Parallel()

	// With macs >= depths-1 the tolerance never rejects, so the count is
	// depths^positions.
	spec := bitting.Spec{Positions: 5, Depths: 4, MACS: 3}

	total, err := transfer.CountPhysical(spec)
	require.NoError(t, err)

	want := new(big.Int).Exp(big.NewInt(4), big.NewInt(5), nil)
	assert.Zero(t, total.Cmp(want))
}

func TestMatchesBruteForce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec bitting.Spec
	}{
		{name: "five by four", spec: bitting.Spec{Positions: 5, Depths: 4, MACS: 2}},
		{name: "six by three", spec: bitting.Spec{Positions: 6, Depths: 3, MACS: 1}},
		{name: "zero macs", spec: bitting.Spec{Positions: 4, Depths: 5, MACS: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			total, err := transfer.CountPhysical(tt.spec)
			require.NoError(t, err)

			assert.Zero(t, total.Cmp(big.NewInt(bruteForceMACSCount(tt.spec))))
		})
	}
}

func TestInvalidSpecRejected(t *testing.T) {
	t.Parallel()

	_, err := transfer.CountPhysical(bitting.Spec{Positions: 0, Depths: 6, MACS: 4})
	require.ErrorIs(t, err, bitting.ErrPositionsRange)
}
