// Package metrics defines all custom Prometheus metrics for the tutoring
// ledger client. It is the single source of truth for metric names, labels,
// and help strings; metrics register themselves with the default registry
// at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tutorlink"

// ── Ledger gateway metrics ────────────────────────────────────────────────────

// LedgerCallsTotal counts contract calls by method and outcome.
// Labels:
//   - method: contract function name (e.g. "getSessionBasicInfo")
//   - outcome: "ok" or "error"
var LedgerCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_calls_total",
		Help:      "Total number of ledger contract calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// LedgerWriteDuration measures submission-to-inclusion latency of writes.
// Label:
//   - method: contract function name (e.g. "bookSession")
var LedgerWriteDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_write_duration_seconds",
		Help:      "Duration of ledger writes from submission to inclusion.",
		Buckets:   []float64{1, 2.5, 5, 10, 15, 30, 60, 120, 300},
	},
	[]string{"method"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// DirectoryRebuildDuration measures full directory rebuild latency by role.
var DirectoryRebuildDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_rebuild_duration_seconds",
		Help:      "Duration of a full session directory rebuild, by role.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"role"},
)

// DirectorySessions tracks the size of the most recently built directory.
var DirectorySessions = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "directory_sessions",
		Help:      "Number of sessions in the most recently built directory, by role.",
	},
	[]string{"role"},
)

// DirectoryFetchFailures counts per-session fetches dropped during rebuilds.
var DirectoryFetchFailures = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_fetch_failures_total",
		Help:      "Total number of per-session fetches dropped during directory rebuilds.",
	},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// EstimatesTotal counts cost estimates by result.
// Label:
//   - result: "ok" or the rejection reason (e.g. "bad_duration")
var EstimatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimates_total",
		Help:      "Total number of cost estimates, by result.",
	},
	[]string{"result"},
)

// BookingsSubmittedTotal counts booking submissions that reached the ledger.
// Label:
//   - outcome: "ok" or "error"
var BookingsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_submitted_total",
		Help:      "Total number of paid booking submissions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Reconciliation metrics ────────────────────────────────────────────────────

// ReconcileResetsTotal counts local view resets by cause.
// Label:
//   - cause: "wrong_network", "disconnected", or "account_changed"
var ReconcileResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_resets_total",
		Help:      "Total number of local view resets triggered by wallet signals.",
	},
	[]string{"cause"},
)
