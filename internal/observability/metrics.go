// Package observability exposes search progress as Prometheus metrics.
//
// The enumeration is a run-to-completion batch job, so the scrape
// endpoint is optional and only served while the search runs; it exists
// for the larger parameter choices where a run takes long enough to be
// worth watching.
package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sumatoshi-tech/keyfang/internal/keyspace"
)

const (
	metricLegalKeys    = "keyfang_legal_keys_total"
	metricVisitedNodes = "keyfang_search_nodes_total"
	metricOffered      = "keyfang_sampler_offered_total"
	metricPartitions   = "keyfang_partitions_done_total"

	labelPartition = "partition"
)

// SearchMetrics holds the Prometheus instruments for one enumeration run.
// Each instance owns an independent registry so repeated runs in one
// process never hit duplicate-collector panics.
type SearchMetrics struct {
	registry *prometheus.Registry

	legalKeys    *prometheus.CounterVec
	visitedNodes *prometheus.CounterVec
	offered      *prometheus.CounterVec
	partitions   prometheus.Counter
}

// NewSearchMetrics creates and registers the search instruments.
func NewSearchMetrics() *SearchMetrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &SearchMetrics{
		registry: registry,
		legalKeys: factory.NewCounterVec(prometheus.CounterOpts{
			Name: metricLegalKeys,
			Help: "Legal keys found, by first-cut partition.",
		}, []string{labelPartition}),
		visitedNodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: metricVisitedNodes,
			Help: "Search tree nodes expanded, by first-cut partition.",
		}, []string{labelPartition}),
		offered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: metricOffered,
			Help: "Keys offered to the reservoir sampler, by first-cut partition.",
		}, []string{labelPartition}),
		partitions: factory.NewCounter(prometheus.CounterOpts{
			Name: metricPartitions,
			Help: "Completed first-cut partitions.",
		}),
	}
}

// PartitionDone records a completed partition. Implements
// [keyspace.Observer]; called from worker goroutines, which is safe
// because Prometheus counters are concurrency-safe.
func (m *SearchMetrics) PartitionDone(p keyspace.PartitionResult) {
	label := strconv.Itoa(int(p.FirstCut))

	m.legalKeys.WithLabelValues(label).Add(float64(p.Legal))
	m.visitedNodes.WithLabelValues(label).Add(float64(p.Visited))
	m.offered.WithLabelValues(label).Add(float64(p.Seen))
	m.partitions.Inc()
}

// Handler returns the /metrics scrape handler backed by this instance's
// registry.
func (m *SearchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
