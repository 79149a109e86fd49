package search_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
	"github.com/Sumatoshi-tech/keyfang/internal/search"
)

// collector retains every offered key.
type collector struct {
	keys []bitting.Key
}

func (c *collector) Offer(key bitting.Key) {
	c.keys = append(c.keys, key.Clone())
}

// enumerateAll runs every first-cut partition sequentially and returns the
// combined count and accepted keys.
func enumerateAll(t *testing.T, spec bitting.Spec) (uint64, []bitting.Key) {
	t.Helper()

	sink := &collector{}
	enum := search.New(spec, sink)

	var total uint64

	for d := range spec.Depths {
		res, err := enum.RunPartition(uint8(d))
		require.NoError(t, err)

		total += res.Legal
	}

	return total, sink.keys
}

// bruteForceCount filters the full depth^positions space with the
// full-sequence validators.
func bruteForceCount(spec bitting.Spec) uint64 {
	key := make(bitting.Key, spec.Positions)

	var count uint64

	for {
		if spec.Legal(key) {
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

func TestSixLegalKeysOracle(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 4, Depths: 2, MACS: 1}

	total, keys := enumerateAll(t, spec)

	require.Equal(t, uint64(6), total)
	require.Len(t, keys, 6)

	got := make([]string, len(keys))
	for i, key := range keys {
		got[i] = key.String()
	}

	sort.Strings(got)

	want := []string{
		"0 0 1 1",
		"0 1 0 1",
		"0 1 1 0",
		"1 0 0 1",
		"1 0 1 0",
		"1 1 0 0",
	}
	assert.Equal(t, want, got)
}

func TestAcceptedKeysPassFullValidators(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 6, Depths: 4, MACS: 2}

	total, keys := enumerateAll(t, spec)

	require.Equal(t, total, uint64(len(keys)))

	for _, key := range keys {
		require.True(t, spec.Legal(key), "accepted key %q violates a rule", key.String())
	}
}

func TestMatchesBruteForce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec bitting.Spec
	}{
		{name: "five by three", spec: bitting.Spec{Positions: 5, Depths: 3, MACS: 2}},
		{name: "six by four", spec: bitting.Spec{Positions: 6, Depths: 4, MACS: 3}},
		{name: "binary depths", spec: bitting.Spec{Positions: 7, Depths: 2, MACS: 1}},
		{name: "tight macs", spec: bitting.Spec{Positions: 4, Depths: 4, MACS: 1}},
		{name: "zero macs", spec: bitting.Spec{Positions: 4, Depths: 3, MACS: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			total, _ := enumerateAll(t, tt.spec)
			assert.Equal(t, bruteForceCount(tt.spec), total)
		})
	}
}

func TestSinglePositionHasNoLegalKeys(t *testing.T) {
	t.Parallel()

	// MaxRepeat is 0 for a single position, so even the first cut is
	// rejected by the frequency rule.
	spec := bitting.Spec{Positions: 1, Depths: 6, MACS: 4}

	total, keys := enumerateAll(t, spec)

	assert.Zero(t, total)
	assert.Empty(t, keys)
}

func TestNilSinkCountsWithoutReporting(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 4, Depths: 2, MACS: 1}
	enum := search.New(spec, nil)

	var total uint64

	for d := range spec.Depths {
		res, err := enum.RunPartition(uint8(d))
		require.NoError(t, err)

		total += res.Legal
		assert.Positive(t, res.Visited)
	}

	assert.Equal(t, uint64(6), total)
}

func TestPartitionsAreDisjointAndExhaustive(t *testing.T) {
	t.Parallel()

	spec := bitting.Spec{Positions: 5, Depths: 4, MACS: 2}

	_, keys := enumerateAll(t, spec)

	seen := make(map[string]int, len(keys))
	for _, key := range keys {
		seen[key.String()]++
	}

	for key, n := range seen {
		assert.Equal(t, 1, n, "key %q enumerated more than once", key)
	}

	assert.Equal(t, bruteForceCount(spec), uint64(len(seen)))
}
