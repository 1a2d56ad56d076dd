// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AnalysisUpserts counts analysis upserts by outcome (created, updated, rejected).
	AnalysisUpserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_analysis_upserts_total",
		Help: "Total number of analysis upsert operations by outcome",
	}, []string{"outcome"})

	// UpsertConflicts counts serialization conflicts between concurrent upserts,
	// including ones resolved by retry.
	UpsertConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cadence_analysis_upsert_conflicts_total",
		Help: "Total number of analysis upsert serialization conflicts",
	})

	// AuditEntriesEmitted counts audit entries by entity kind.
	AuditEntriesEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_audit_entries_total",
		Help: "Total number of audit entries emitted by entity kind",
	}, []string{"entity_type"})

	// CascadeDeletes counts cascading deletions by root entity kind.
	CascadeDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cadence_cascade_deletes_total",
		Help: "Total number of cascading delete operations by root entity",
	}, []string{"entity_type"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cadence_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
