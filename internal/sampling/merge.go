package sampling

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

// mergePartition is the pseudo-partition index reserved for the merge
// pass RNG, so merge draws never reuse a worker's stream.
const mergePartition = -1

// Merge combines per-partition reservoirs into a single sample of at most
// capacity keys, uniform over the union of the offered streams.
//
// Each retained key in a reservoir stands for seen/len(samples) keys of
// that reservoir's stream, so the merge performs weighted selection
// without replacement (Efraimidis-Spirakis keys: u^(1/w), keep the
// largest). Propagating the true seen counts is what keeps the merged
// sample uniform over the whole population rather than over the union of
// the per-partition samples.
func Merge(capacity int, baseSeed uint64, reservoirs ...*Reservoir) []bitting.Key {
	if capacity <= 0 {
		return nil
	}

	type candidate struct {
		key  bitting.Key
		rank float64
	}

	rng := rand.New(rand.NewPCG(baseSeed, PartitionSeed(baseSeed, mergePartition)))

	var candidates []candidate

	for _, r := range reservoirs {
		if r == nil || r.Len() == 0 {
			continue
		}

		weight := float64(r.Seen()) / float64(r.Len())

		for _, key := range r.Samples() {
			candidates = append(candidates, candidate{
				key:  key,
				rank: math.Pow(rng.Float64(), 1/weight),
			})
		}
	}

	if len(candidates) <= capacity {
		out := make([]bitting.Key, len(candidates))
		for i, c := range candidates {
			out[i] = c.key
		}

		return out
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].rank > candidates[j].rank
	})

	out := make([]bitting.Key, capacity)
	for i := range capacity {
		out[i] = candidates[i].key
	}

	return out
}
