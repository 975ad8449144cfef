// Package metrics defines and registers the custom Prometheus metrics of the
// console API. It is the single source of truth for their names, labels,
// and help strings. The remote store adapter registers its own.
//
// Every metric is registered with the default Prometheus registry through
// promauto when the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "printmanage"

// ── Console metrics ───────────────────────────────────────────────────────────

// ConfirmationsTotal counts gated destructive actions.
// Labels:
//   - resource: the collection the action targets
//   - result: "requested", "confirmed", "cancelled" or "failed"
var ConfirmationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "confirmations_total",
		Help:      "Total number of gated delete requests, by result.",
	},
	[]string{"resource", "result"},
)

// ConfirmationsPending tracks the delete requests awaiting an answer.
var ConfirmationsPending = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "confirmations_pending",
		Help:      "Current number of delete requests awaiting confirmation.",
	},
)

// LoginsTotal counts sign-in attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// PrinterMovesTotal counts successful printer relocations.
var PrinterMovesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "printer_moves_total",
		Help:      "Total number of printers moved between departments.",
	},
)

// ListViewItems observes how many records a list request mirrored before
// filtering.
// Label:
//   - resource: the collection listed
var ListViewItems = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_view_items",
		Help:      "Number of records mirrored per list request.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
	[]string{"resource"},
)
