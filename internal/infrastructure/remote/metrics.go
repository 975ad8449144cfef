package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestsTotal counts calls to the remote store.
// Labels:
//   - resource: the collection called (e.g. "companies", "analytics")
//   - method: the HTTP method
//   - outcome: "ok", "network", "unauthorized", "forbidden", "not_found",
//     "validation", "malformed" or "error"
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "printmanage",
		Name:      "remote_requests_total",
		Help:      "Total number of requests sent to the remote store, by outcome.",
	},
	[]string{"resource", "method", "outcome"},
)

// requestDuration measures the round trip of a call, throttling excluded.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "printmanage",
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote store requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "method"},
)

var throttleWait = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "printmanage",
		Name:      "remote_throttle_wait_seconds",
		Help:      "Time spent waiting for the outbound rate limiter.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	},
)
