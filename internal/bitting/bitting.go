// Package bitting defines pin-tumbler key bittings and the EN 1303
// structural rules that decide whether a bitting is legal.
//
// A bitting (Key) is an ordered sequence of cut depths. Three rules apply:
// no depth may account for more than half of the cuts, no three consecutive
// cuts may share a depth, and adjacent cuts may differ by at most the MACS
// tolerance. All three rules are monotonic under prefix extension, which is
// what allows the search engine to prune partial keys.
package bitting

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// MinPositions is the minimum supported number of cut positions.
	MinPositions = 1

	// MaxPositions is the maximum supported number of cut positions.
	// Bounds the fixed-size buffers used on the search hot path.
	MaxPositions = 32

	// MinDepths is the minimum supported number of cut depths.
	MinDepths = 2

	// MaxDepths is the maximum supported number of cut depths.
	MaxDepths = 16
)

// ErrPositionsRange is returned when the position count is outside [MinPositions, MaxPositions].
var ErrPositionsRange = errors.New("bitting: positions out of range")

// ErrDepthsRange is returned when the depth count is outside [MinDepths, MaxDepths].
var ErrDepthsRange = errors.New("bitting: depths out of range")

// ErrMACSNegative is returned when the adjacent-cut tolerance is negative.
var ErrMACSNegative = errors.New("bitting: macs must be non-negative")

// Spec describes one keyway: the number of cut positions, the number of
// discrete cut depths, and the maximum adjacent cut difference (MACS).
type Spec struct {
	Positions int
	Depths    int
	MACS      int
}

// Validate checks that the spec parameters are within supported bounds.
func (s Spec) Validate() error {
	if s.Positions < MinPositions || s.Positions > MaxPositions {
		return ErrPositionsRange
	}

	if s.Depths < MinDepths || s.Depths > MaxDepths {
		return ErrDepthsRange
	}

	if s.MACS < 0 {
		return ErrMACSNegative
	}

	return nil
}

// MaxRepeat returns the maximum number of times any single depth may occur
// in a legal key: floor(positions / 2).
func (s Spec) MaxRepeat() int {
	return s.Positions / 2
}

// Key is an ordered sequence of cut depths, one per position.
// During search a single Key buffer is mutated in place; Clone is taken
// only when a complete legal key leaves the search.
type Key []uint8

// Clone returns an independent copy of the key.
func (k Key) Clone() Key {
	out := make(Key, len(k))
	copy(out, k)

	return out
}

// String renders the key as space-separated depth values in cut order.
func (k Key) String() string {
	var sb strings.Builder

	for i, d := range k {
		if i > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(strconv.Itoa(int(d)))
	}

	return sb.String()
}

// FrequencyTable counts occurrences of each depth in the key prefix built
// so far. Fixed-size so it lives on the stack during recursion.
type FrequencyTable [MaxDepths]uint8

// Add records one more occurrence of depth d.
func (f *FrequencyTable) Add(d uint8) {
	f[d]++
}

// Remove erases one occurrence of depth d.
func (f *FrequencyTable) Remove(d uint8) {
	f[d]--
}

// Count returns the recorded occurrences of depth d.
func (f *FrequencyTable) Count(d uint8) int {
	return int(f[d])
}
