// Package keyspace partitions the key search space by first-position cut,
// runs one pruned enumeration per partition concurrently, and aggregates
// the per-partition counts and samples into a single result.
package keyspace

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
	"github.com/Sumatoshi-tech/keyfang/internal/sampling"
	"github.com/Sumatoshi-tech/keyfang/internal/search"
)

// Observer receives per-partition completion events. Implementations must
// be safe for concurrent use; the enumeration calls them from worker
// goroutines.
type Observer interface {
	PartitionDone(p PartitionResult)
}

// Params configures one enumeration run.
type Params struct {
	// Spec is the keyway being enumerated. Must validate.
	Spec bitting.Spec

	// SampleSize is the requested uniform sample capacity. Zero or
	// negative disables sampling entirely.
	SampleSize int

	// Seed is the base RNG seed for sampling. Zero selects the default.
	Seed uint64

	// Workers caps how many partitions run concurrently. Zero or negative
	// means one goroutine per partition. The legal count is identical for
	// every setting; only wall time changes.
	Workers int

	// Observer, when non-nil, is notified as each partition completes.
	Observer Observer
}

// PartitionResult is the outcome of enumerating one first-cut partition.
type PartitionResult struct {
	FirstCut uint8
	Legal    uint64
	Visited  uint64
	Seen     uint64
}

// Result is the aggregate over all partitions.
type Result struct {
	// Legal is the exact number of legal keys. Held as a big integer:
	// partition counters are 64-bit but their sum need not stay so for
	// larger parameter choices.
	Legal *big.Int

	// Samples is the merged uniform sample, at most SampleSize keys.
	// Empty when sampling is disabled.
	Samples []bitting.Key

	// Partitions holds the per-partition outcomes, indexed by first cut.
	Partitions []PartitionResult

	// Elapsed is the wall time of the parallel search phase.
	Elapsed time.Duration
}

// Enumerate runs the full partitioned search and returns the aggregate
// result. Partitions are disjoint and exhaustive by construction (every
// key has exactly one first cut), so workers share no mutable state and
// the join barrier is the only synchronization point.
func Enumerate(ctx context.Context, params Params) (*Result, error) {
	err := params.Spec.Validate()
	if err != nil {
		return nil, fmt.Errorf("enumerate: %w", err)
	}

	sampleSize := params.SampleSize
	if sampleSize < 0 {
		sampleSize = 0
	}

	seed := params.Seed
	if seed == 0 {
		seed = sampling.DefaultSeed
	}

	depths := params.Spec.Depths
	partitions := make([]PartitionResult, depths)
	reservoirs := make([]*sampling.Reservoir, depths)

	start := time.Now()

	group, _ := errgroup.WithContext(ctx)
	if params.Workers > 0 {
		group.SetLimit(params.Workers)
	}

	for d := range depths {
		group.Go(func() error {
			var sink search.Sink

			if sampleSize > 0 {
				r := sampling.NewReservoir(sampleSize, d, seed)
				reservoirs[d] = r
				sink = r
			}

			res, runErr := search.New(params.Spec, sink).RunPartition(uint8(d))
			if runErr != nil {
				return fmt.Errorf("partition %d: %w", d, runErr)
			}

			pr := PartitionResult{
				FirstCut: uint8(d),
				Legal:    res.Legal,
				Visited:  res.Visited,
			}
			if reservoirs[d] != nil {
				pr.Seen = reservoirs[d].Seen()
			}

			partitions[d] = pr

			if params.Observer != nil {
				params.Observer.PartitionDone(pr)
			}

			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		return nil, err
	}

	// Past the join barrier ownership of every partition's outputs has
	// transferred to the aggregator; no further locking is needed.
	total := new(big.Int)
	for _, pr := range partitions {
		total.Add(total, new(big.Int).SetUint64(pr.Legal))
	}

	result := &Result{
		Legal:      total,
		Partitions: partitions,
		Elapsed:    time.Since(start),
	}

	if sampleSize > 0 {
		result.Samples = sampling.Merge(sampleSize, seed, reservoirs...)
	}

	return result, nil
}
