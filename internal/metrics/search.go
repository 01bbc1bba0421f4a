package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localdex",
			Name:      "search_requests_total",
			Help:      "Total number of searches by answering source",
		},
		[]string{"operation", "source"}, // source: reference, remote, local, empty
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localdex",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localdex",
			Name:      "remote_requests_total",
			Help:      "Total remote search backend calls",
		},
		[]string{"operation", "status"}, // status: ok / error / disabled
	)

	RemoteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localdex",
			Name:      "remote_duration_seconds",
			Help:      "Remote search backend call duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"backend", "operation"}, // backend: http / elasticsearch
	)

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localdex",
			Name:      "gateway_requests_total",
			Help:      "Total collection gateway calls during local fallback",
		},
		[]string{"collection", "status"},
	)

	GatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localdex",
			Name:      "gateway_duration_seconds",
			Help:      "Collection gateway call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"collection"},
	)

	SuggestCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localdex",
			Name:      "suggest_cache_total",
			Help:      "Suggestion cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ReferenceIDsAllocatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localdex",
			Name:      "reference_ids_allocated_total",
			Help:      "Reference ids allocated by kind",
		},
		[]string{"kind"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers the search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(RemoteRequestsTotal)
	prometheus.MustRegister(RemoteDuration)
	prometheus.MustRegister(GatewayRequestsTotal)
	prometheus.MustRegister(GatewayDuration)
	prometheus.MustRegister(SuggestCacheTotal)
	prometheus.MustRegister(ReferenceIDsAllocatedTotal)
	searchMetricsRegistered = true
}

// Status label helper.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
