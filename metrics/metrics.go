package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// RequestsTotal counts handled API requests by endpoint and result.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantapp",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of API requests handled, labeled by endpoint and result.",
	}, []string{"endpoint", "result"})

	// RequestDurationSeconds is end-to-end handler time per endpoint.
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plantapp",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "End-to-end time to handle an API request.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"endpoint"})

	// ProviderCallsTotal counts upstream provider exchanges by outcome.
	ProviderCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plantapp",
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "Total number of upstream provider calls, labeled by provider and result.",
	}, []string{"provider", "result"})

	// ProviderCallDurationSeconds is the time spent inside one provider call.
	ProviderCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plantapp",
		Subsystem: "provider",
		Name:      "call_duration_seconds",
		Help:      "Time spent on a single upstream provider HTTP exchange.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"provider"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestDurationSeconds,
			ProviderCallsTotal,
			ProviderCallDurationSeconds,
		)
	})
}
