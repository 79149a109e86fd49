// Package sampling provides streaming reservoir sampling of legal keys
// and the weighted merge that combines per-partition reservoirs into one
// uniform sample.
package sampling

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

// DefaultSeed is the base seed shared by all reservoirs unless configured
// otherwise. Kept from the reference implementation for reproducible runs.
const DefaultSeed uint64 = 0xFEDE123

// PartitionSeed derives a per-partition seed stream from the base seed.
// Each partition gets an independent stream so sampling decisions are not
// correlated across workers, while identical inputs stay reproducible.
func PartitionSeed(base uint64, partition int) uint64 {
	var buf [16]byte

	binary.LittleEndian.PutUint64(buf[:8], base)
	binary.LittleEndian.PutUint64(buf[8:], uint64(partition))

	return xxhash.Sum64(buf[:])
}

// Reservoir maintains a fixed-capacity uniform sample over a stream of
// keys of unknown length. After m offers every offered key has equal
// probability min(1, capacity/m) of being retained.
//
// A reservoir is owned by exactly one worker while offers are made and is
// read-only afterwards.
type Reservoir struct {
	capacity int
	rng      *rand.Rand
	samples  []bitting.Key
	seen     uint64
}

// NewReservoir creates a reservoir of the given capacity for one
// partition. Capacities below 1 yield a reservoir that counts offers but
// retains nothing.
func NewReservoir(capacity, partition int, baseSeed uint64) *Reservoir {
	if capacity < 0 {
		capacity = 0
	}

	return &Reservoir{
		capacity: capacity,
		rng:      rand.New(rand.NewPCG(baseSeed, PartitionSeed(baseSeed, partition))),
		samples:  make([]bitting.Key, 0, capacity),
	}
}

// Offer presents one key to the reservoir. The key is copied if retained,
// so callers may keep mutating the passed slice. The draw range grows by
// exactly one per offer, which is what makes retention uniform.
func (r *Reservoir) Offer(key bitting.Key) {
	r.seen++

	if len(r.samples) < r.capacity {
		r.samples = append(r.samples, key.Clone())

		return
	}

	if r.capacity == 0 {
		return
	}

	idx := r.rng.Uint64N(r.seen)
	if idx < uint64(r.capacity) {
		r.samples[idx] = key.Clone()
	}
}

// Seen returns the total number of keys offered so far.
func (r *Reservoir) Seen() uint64 {
	return r.seen
}

// Len returns the number of keys currently retained.
func (r *Reservoir) Len() int {
	return len(r.samples)
}

// Samples returns the retained keys. The caller must treat the result as
// read-only; ownership stays with the reservoir.
func (r *Reservoir) Samples() []bitting.Key {
	return r.samples
}
