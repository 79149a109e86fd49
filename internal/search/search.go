// Package search implements the pruning depth-first enumeration of legal
// key bittings over a single first-cut partition.
//
// The enumerator extends one position at a time and rejects subtrees as
// soon as the frequency bound or the MACS tolerance rules out every
// completion. The no-three-consecutive rule is checked once per completed
// extension: a prefix ending in three identical cuts is never extended
// and never counted.
package search

import (
	"errors"
	"math"

	"github.com/Sumatoshi-tech/keyfang/internal/bitting"
)

// ErrCountSaturated is returned when a partition's legal-key counter would
// wrap past its 64-bit range. Surfaced instead of silently wrapping.
var ErrCountSaturated = errors.New("search: legal key counter saturated")

// Sink receives every complete legal key found by the enumerator.
// Implementations must copy the key if they retain it: the slice is the
// enumerator's mutable buffer.
type Sink interface {
	Offer(key bitting.Key)
}

// Result holds the outcome of enumerating one partition.
type Result struct {
	// Legal is the number of legal keys in the partition.
	Legal uint64

	// Visited is the number of search-tree nodes expanded, counting the
	// pruned ones. Feeds metrics only; not part of the count contract.
	Visited uint64
}

// Enumerator runs the pruned depth-first search. One instance owns its
// key buffer and frequency table outright, so it must not be shared
// across goroutines.
type Enumerator struct {
	spec    bitting.Spec
	sink    Sink
	key     bitting.Key
	freq    bitting.FrequencyTable
	legal   uint64
	visited uint64
}

// New creates an enumerator for the given spec. sink may be nil, in which
// case complete keys are counted but not reported.
func New(spec bitting.Spec, sink Sink) *Enumerator {
	return &Enumerator{
		spec: spec,
		sink: sink,
		key:  make(bitting.Key, spec.Positions),
	}
}

// RunPartition enumerates every legal key whose first cut is firstCut and
// returns the partition result. The enumerator resets itself first, so an
// instance may run several partitions sequentially.
func (e *Enumerator) RunPartition(firstCut uint8) (Result, error) {
	e.legal = 0
	e.visited = 0
	e.freq = bitting.FrequencyTable{}

	if !e.spec.CanPlace(&e.freq, firstCut) {
		// Only reachable for single-position specs, where MaxRepeat is 0.
		return Result{}, nil
	}

	e.key[0] = firstCut
	e.freq.Add(firstCut)

	err := e.extend(1)
	if err != nil {
		return Result{}, err
	}

	return Result{Legal: e.legal, Visited: e.visited}, nil
}

// extend fills position i and deeper, assuming positions [0, i) hold a
// prefix that already satisfies the frequency and MACS rules.
func (e *Enumerator) extend(i int) error {
	e.visited++

	if e.spec.TrailingTriple(e.key, i) {
		return nil
	}

	if i == e.spec.Positions {
		if e.legal == math.MaxUint64 {
			return ErrCountSaturated
		}

		e.legal++

		if e.sink != nil {
			e.sink.Offer(e.key)
		}

		return nil
	}

	prev := e.key[i-1]

	for d := range e.spec.Depths {
		cut := uint8(d)

		if !e.spec.CanPlace(&e.freq, cut) {
			continue
		}

		if !e.spec.WithinMACS(prev, cut) {
			continue
		}

		e.key[i] = cut
		e.freq.Add(cut)

		err := e.extend(i + 1)

		e.freq.Remove(cut)

		if err != nil {
			return err
		}
	}

	return nil
}
