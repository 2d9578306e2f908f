package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UpstreamRequests counts resource calls against the backend API.
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zerostour_upstream_requests_total",
			Help: "Total number of resource calls made to the Zeros Tour API.",
		},
		[]string{"op", "resource", "outcome"}, // op: list/create/update/delete
	)

	// UpstreamLatency records resource call duration.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zerostour_upstream_latency_seconds",
			Help:    "Latency of resource calls to the Zeros Tour API.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "resource"},
	)

	// StaleResponses counts list results discarded because a newer request
	// was issued by the same controller.
	StaleResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zerostour_list_stale_responses_total",
			Help: "List responses discarded because a newer request superseded them.",
		},
	)

	// Mutations counts successful dashboard mutations.
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zerostour_dashboard_mutations_total",
			Help: "Create/update/delete actions completed from the dashboard.",
		},
		[]string{"resource", "action"},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequests)
	prometheus.MustRegister(UpstreamLatency)
	prometheus.MustRegister(StaleResponses)
	prometheus.MustRegister(Mutations)
}

// ObserveUpstream records one finished resource call.
func ObserveUpstream(op, resource, outcome string, d time.Duration) {
	UpstreamRequests.WithLabelValues(op, resource, outcome).Inc()
	UpstreamLatency.WithLabelValues(op, resource).Observe(d.Seconds())
}
