// Itinera - Place Discovery and Trip Planning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itinera

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "itinera_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itinera_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Store Metrics
	StoreConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_store_conflicts_total",
			Help: "Transaction or version conflicts detected by the document store",
		},
		[]string{"kind"},
	)

	// Rating Metrics
	RatingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_rating_events_total",
			Help: "Review events applied to place rating histograms",
		},
		[]string{"event"}, // "add", "replace", "remove"
	)

	RatingRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itinera_rating_rejected_total",
			Help: "Review events rejected for an out-of-range star value",
		},
	)

	// Recency Ledger Metrics
	LedgerRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_ledger_records_total",
			Help: "Recency ledger record operations",
		},
		[]string{"outcome"}, // "inserted", "promoted", "evicted"
	)

	// Itinerary Metrics
	ItineraryRepairAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_itinerary_repair_attempts_total",
			Help: "Attempts to update a parent plan after a section write",
		},
		[]string{"operation"},
	)

	ItineraryRepairFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_itinerary_repair_failures_total",
			Help: "Parent plan updates that failed after all retries",
		},
		[]string{"operation"},
	)

	ItineraryBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itinera_itinerary_breaker_state",
			Help: "Repair circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Discovery Metrics
	DiscoveryQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_discovery_queries_total",
			Help: "Discovery queries by kind",
		},
		[]string{"kind"}, // "list", "search", "popular", "best", "nearby"
	)

	PlaceViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itinera_place_views_total",
			Help: "Place detail views",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itinera_cache_hits_total",
			Help: "Listing cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itinera_cache_misses_total",
			Help: "Listing cache misses",
		},
	)

	// Sweep Metrics
	SweepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_sweep_runs_total",
			Help: "Reconciliation sweep runs",
		},
		[]string{"result"}, // "success", "error"
	)

	SweepRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_sweep_repairs_total",
			Help: "Inconsistencies repaired by the reconciliation sweep",
		},
		[]string{"kind"}, // "orphan_section", "stale_reference", "province_count", "place_rating"
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itinera_sweep_duration_seconds",
			Help:    "Duration of reconciliation sweeps",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	// Audit Metrics
	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_audit_events_total",
			Help: "Audit events by type and write result",
		},
		[]string{"type", "result"}, // "saved", "failed", "dropped"
	)

	// Backup Metrics
	BackupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinera_backup_runs_total",
			Help: "Store snapshots taken",
		},
		[]string{"result"},
	)

	BackupBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itinera_backup_last_size_bytes",
			Help: "Compressed size of the most recent successful snapshot",
		},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itinera_websocket_clients",
			Help: "Connected admin event feed clients",
		},
	)

	WebSocketDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itinera_websocket_dropped_messages_total",
			Help: "Event feed messages dropped because a buffer was full",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSweep records the outcome and duration of one sweep run.
func RecordSweep(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	SweepRuns.WithLabelValues(result).Inc()
	SweepDuration.Observe(duration.Seconds())
}
