package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buybio",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of analysis endpoints",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buybio",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Failed requests by analysis endpoint",
		},
		[]string{"endpoint", "code"},
	)

	ReturnedResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buybio",
			Subsystem: "api",
			Name:      "returned_results",
			Help:      "Number of results returned per request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"endpoint"},
	)
)

// Register adds the endpoint collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors, ReturnedResults)
	})
}
