package bitting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

func TestCanPlace(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 4, Depths: 2, MACS: 1}

	var freq bitting.FrequencyTable

	// MaxRepeat is 2: two placements allowed, not a third.
	assert.True(t, spec.CanPlace(&freq, 0))

	freq.Add(0)
	assert.True(t, spec.CanPlace(&freq, 0))

	freq.Add(0)
	assert.False(t, spec.CanPlace(&freq, 0))
	assert.True(t, spec.CanPlace(&freq, 1))
}

func TestWithinMACS(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 10, Depths: 6, MACS: 4}

	assert.True(t, spec.WithinMACS(0, 4))
	assert.True(t, spec.WithinMACS(4, 0))
	assert.True(t, spec.WithinMACS(3, 3))
	assert.False(t, spec.WithinMACS(0, 5))
	assert.False(t, spec.WithinMACS(5, 0))
}

func TestTrailingTriple(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 10, Depths: 6, MACS: 4}
	key := bitting.Key{1, 2, 2, 2, 0, 0, 0, 0, 0, 0}

	assert.False(t, spec.TrailingTriple(key, 0))
	assert.False(t, spec.TrailingTriple(key, 2))
	assert.False(t, spec.TrailingTriple(key, 3))
	assert.True(t, spec.TrailingTriple(key, 4))
}

func TestFullValidators(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 4, Depths: 2, MACS: 1}

	tests := []struct {
		name  string
		key   bitting.Key
		legal bool
	}{
		{name: "alternating", key: bitting.Key{0, 1, 0, 1}, legal: true},
		{name: "paired", key: bitting.Key{0, 0, 1, 1}, legal: true},
		{name: "depth dominates", key: bitting.Key{0, 0, 0, 1}, legal: false},
		{name: "triple run", key: bitting.Key{1, 1, 1, 0}, legal: false},
		{name: "wrong length", key: bitting.Key{0, 1, 0}, legal: false},
		{name: "depth out of range", key: bitting.Key{0, 2, 0, 1}, legal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.legal, spec.Legal(tt.key))
		})
	}
}

func TestCheckMACS(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 4, Depths: 6, MACS: 2}

	assert.True(t, spec.CheckMACS(bitting.Key{0, 2, 4, 5}))
	assert.False(t, spec.CheckMACS(bitting.Key{0, 3, 4, 5}))
	assert.False(t, spec.CheckMACS(bitting.Key{5, 4, 1, 0}))
	assert.True(t, spec.CheckMACS(bitting.Key{3}))
}

func TestCheckNoTriple(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 5, Depths: 6, MACS: 4}

	assert.True(t, spec.CheckNoTriple(bitting.Key{1, 1, 2, 1, 1}))
	assert.False(t, spec.CheckNoTriple(bitting.Key{2, 1, 1, 1, 0}))
	assert.False(t, spec.CheckNoTriple(bitting.Key{3, 3, 3, 3, 3}))
}

func TestCheckFrequency(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 5, Depths: 6, MACS: 4}

	// MaxRepeat is 2 for five positions.
	assert.True(t, spec.CheckFrequency(bitting.Key{0, 0, 1, 1, 2}))
	assert.False(t, spec.CheckFrequency(bitting.Key{0, 0, 0, 1, 2}))
}
