package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RelayEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_total",
			Help: "Total number of inbound webhook events handled by the relay (count)",
		},
		[]string{"route", "result"},
	)

	DedupChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_checks_total",
			Help: "Total number of note deduplication checks (count)",
		},
		[]string{"result"},
	)

	DedupCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_cache_size",
			Help: "Number of live entries in the note deduplication cache (count)",
		},
	)

	DeliveryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_requests_total",
			Help: "Total number of outbound webhook deliveries (count)",
		},
		[]string{"outcome"},
	)

	DeliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delivery_duration_ms",
			Help:    "Duration of outbound webhook deliveries in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"outcome"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

// RegisterRelayMetrics registers the relay collectors on reg.
func RegisterRelayMetrics(reg prometheus.Registerer) {
	reg.MustRegister(RelayEventsTotal)
	reg.MustRegister(DedupChecksTotal)
	reg.MustRegister(DedupCacheSize)
	reg.MustRegister(DeliveryRequestsTotal)
	reg.MustRegister(DeliveryDuration)
}

func RegisterCircuitBreakerMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CircuitBreakerState)
	reg.MustRegister(CircuitBreakerRequests)
	reg.MustRegister(CircuitBreakerFailures)
}

func RegisterRateLimitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitRequestsTotal)
}

func IncRelayEvent(route, result string) {
	RelayEventsTotal.WithLabelValues(route, result).Inc()
}

func IncDedupCheck(result string) {
	DedupChecksTotal.WithLabelValues(result).Inc()
}

func SetDedupCacheSize(size int) {
	DedupCacheSize.Set(float64(size))
}

func ObserveDelivery(outcome string, duration time.Duration) {
	DeliveryRequestsTotal.WithLabelValues(outcome).Inc()
	DeliveryDuration.WithLabelValues(outcome).Observe(float64(duration.Milliseconds()))
}
